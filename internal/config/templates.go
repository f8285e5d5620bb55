package config

import (
	"bytes"
	"strconv"
	"text/template"
)

// DefaultConfigTemplate is the commented configuration written by
// `repoctl config init`.
const DefaultConfigTemplate = `# repoctl configuration
# Values may reference environment variables, e.g. password: "${NEXUS_PASSWORD}".

# Repository server
server:
  url: {{ quote .URL }}            # Base URL of the repository manager
{{- if .Username }}
  username: {{ quote .Username }}
  password: "${REPOCTL_PASSWORD}"
{{- else }}
  # username: "admin"          # Basic authentication user (optional)
  # password: "${REPOCTL_PASSWORD}"
{{- end }}
  timeout: {{ quote .Timeout }}     # Request timeout

# Application logging (written to stderr by default)
logging:
  level: warn                  # Log level (debug, info, warn, error)
  format: text                 # Log format (text or json)
  output: stderr               # Output destination (stdout, stderr, file path)

# Prometheus metrics
metrics:
  # textfile: "/var/lib/node_exporter/textfile/repoctl.prom"
`

// YAML double-quoted scalars accept Go's escape sequences.
var configTemplate = template.Must(template.New("config").
	Funcs(template.FuncMap{"quote": strconv.Quote}).
	Parse(DefaultConfigTemplate))

// RenderTemplate renders DefaultConfigTemplate for the given server.
func RenderTemplate(server ServerConnection) ([]byte, error) {
	if server.Timeout == 0 {
		server.Timeout = DefaultConfig().Server.Timeout
	}

	data := struct {
		URL      string
		Username string
		Timeout  string
	}{
		URL:      server.URL,
		Username: server.Username,
		Timeout:  server.Timeout.Duration().String(),
	}

	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
