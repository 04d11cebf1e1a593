package cli

const patientTemplate = `
=== Patient Details ===

Name:      {{.FullName}}
ID:        {{.ID}}
{{- if .Email }}
Email:     {{.Email}}
{{- end}}
{{- if .PhoneNumber }}
Phone:     {{.PhoneNumber}}
{{- end}}
{{- if .Gender }}
Gender:    {{.Gender}}
{{- end}}
{{- if .DOB }}
Born:      {{.DOB}}{{ if ge .Age 0 }} ({{.Age}} years){{ end }}
{{- end}}
{{- if .HealthInsurance }}
Insurance: {{.HealthInsurance}}
{{- end}}
{{- if not .CreatedAt.IsZero }}
Created:   {{.CreatedAt.Format "2006-01-02 15:04"}}
{{- end}}
Source:    {{.Source}}
{{- if .Notes }}

Notes:
---
{{.Notes}}
---
{{- end}}
`

const statusTemplate = `
=== Status ===

Connection:     {{ if .Online }}online{{ else }}offline{{ end }}
Server:         {{.Server}}
Session:        {{.Session}}
Schema version: {{.SchemaVersion}}/{{.TargetVersion}}
Pending sync:   {{.Pending}}
Last sync:      {{ if .LastSync.IsZero }}never{{ else }}{{.LastSync.Format "2006-01-02 15:04:05"}}{{ end }}
`
