package classifier

import "fmt"

// InputType names the widget the next user turn should be collected with.
type InputType string

const (
	InputText     InputType = "text"
	InputNumber   InputType = "number"
	InputTextarea InputType = "textarea"
	InputEmail    InputType = "email"
	InputTel      InputType = "tel"
	InputDate     InputType = "date"
	InputSelect   InputType = "select"
)

var inputTypes = []InputType{InputText, InputNumber, InputTextarea, InputEmail, InputTel, InputDate, InputSelect}

func (t InputType) Valid() bool {
	for _, v := range inputTypes {
		if t == v {
			return true
		}
	}
	return false
}

func ParseInputType(s string) (InputType, error) {
	t := InputType(s)
	if !t.Valid() {
		return "", fmt.Errorf("classifier: unknown input type %q", s)
	}
	return t, nil
}

const (
	DefaultPlaceholder = "Escribe un mensaje..."
	SelectPlaceholder  = "Selecciona una opción"
)

var placeholders = map[InputType]string{
	InputEmail:    "ejemplo@correo.com",
	InputNumber:   "Ingresa un número",
	InputTel:      "+1234567890",
	InputDate:     "Selecciona una fecha",
	InputTextarea: "Escribe tu respuesta detallada aquí...",
	InputSelect:   SelectPlaceholder,
}

// Placeholder returns the hint shown in an empty widget of type t.
func Placeholder(t InputType) string {
	if p, ok := placeholders[t]; ok {
		return p
	}
	return DefaultPlaceholder
}

// Result is the classification of one bot reply. Options is non-empty only
// when InputType is InputSelect.
type Result struct {
	InputType   InputType `json:"inputType"`
	Options     []string  `json:"options"`
	Placeholder string    `json:"placeholder"`
}

// DefaultResult is what a reply with no recognizable cue classifies as.
func DefaultResult() Result {
	return Result{InputType: InputText, Options: []string{}, Placeholder: DefaultPlaceholder}
}
