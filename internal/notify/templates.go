package notify

import (
	"bytes"
	"strconv"
	"text/template"
	"time"
)

var slotAvailableTmpl = template.Must(template.New("slot").Parse(
	`Hola {{.Name}},

Se liberó un turno para {{.Service}} el {{.Date}} a las {{.Time}}.
Tenés {{.Window}} para confirmarlo desde el enlace que te enviamos o contactando a la barbería.
`))

var confirmedTmpl = template.Must(template.New("confirmed").Parse(
	`Hola {{.Name}},

Tu turno quedó confirmado.
Código: {{.Code}}
Servicio: {{.Service}}
Barbero: {{.Barber}}
Fecha: {{.Date}} {{.Time}}
`))

type slotData struct {
	Name    string
	Service string
	Date    string
	Time    string
	Window  string
}

type confirmedData struct {
	Name    string
	Code    string
	Service string
	Barber  string
	Date    string
	Time    string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatWindow(d time.Duration) string {
	if d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hora"
		}
		return strconv.Itoa(h) + " horas"
	}
	return strconv.Itoa(int(d/time.Minute)) + " minutos"
}
