package render

import "html/template"

// FatalNotice replaces the whole page when a visitor cannot be served.
type FatalNotice struct {
	Heading string
	Lines   []string
	Detail  string
}

var (
	// SecurityErrorNotice is shown when no security token could be obtained.
	SecurityErrorNotice = FatalNotice{
		Heading: "Security Error",
		Lines:   []string{"Could not establish a secure connection. Please refresh."},
	}
	// InitializationFailedNotice is shown when the base translations are missing.
	InitializationFailedNotice = FatalNotice{
		Heading: "Site Initialization Failed",
		Lines:   []string{"Please check the server logs for details."},
	}
)

var fatalTemplate = template.Must(template.New("fatal").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Sinthia Telecom</title></head>
<body><div style="padding:2rem;text-align:center;color:white;background-color:#0D1117;height:100vh;display:flex;flex-direction:column;justify-content:center;align-items:center;"><h1>{{.Heading}}</h1>{{range .Lines}}<p>{{.}}</p>{{end}}{{if .Detail}}<p style="color:#8D96A0;margin-top:1rem;">{{.Detail}}</p>{{end}}</div></body>
</html>`))

// Fatal renders a full-page notice.
func Fatal(notice FatalNotice) ([]byte, error) {
	fragment, renderErr := execute(fatalTemplate, notice)
	if renderErr != nil {
		return nil, renderErr
	}
	return []byte(fragment), nil
}
