// Package model holds the wire types of the repository manager's global
// settings resource.
//
// The server owns many more settings than this client edits. Members that
// are not modelled here are kept as raw JSON and written back untouched, so a
// read-modify-write cycle only changes the fields a caller actually sets.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// GlobalConfiguration is the server-wide settings resource.
type GlobalConfiguration struct {
	GlobalHTTPProxySettings *RemoteHTTPProxySettings `json:"globalHttpProxySettings,omitempty"`

	extra map[string]json.RawMessage
}

// RemoteHTTPProxySettings describes the outbound HTTP proxy the server uses.
type RemoteHTTPProxySettings struct {
	ProxyHostname  string                  `json:"proxyHostname"`
	ProxyPort      int                     `json:"proxyPort"`
	NonProxyHosts  []string                `json:"nonProxyHosts,omitempty"`
	Authentication *AuthenticationSettings `json:"authentication,omitempty"`

	extra map[string]json.RawMessage
}

// AuthenticationSettings are the credentials presented to the proxy.
// NTLMHost and NTLMDomain are only set for NTLM proxies.
type AuthenticationSettings struct {
	Username   string `json:"username"`
	Password   string `json:"password,omitempty"`
	NTLMHost   string `json:"ntlmHost,omitempty"`
	NTLMDomain string `json:"ntlmDomain,omitempty"`
}

// GlobalConfigurationResponse is the envelope returned by a GET.
type GlobalConfigurationResponse struct {
	Data *GlobalConfiguration `json:"data"`
}

// GlobalConfigurationRequest is the envelope sent with a PUT.
type GlobalConfigurationRequest struct {
	Data *GlobalConfiguration `json:"data"`
}

type globalConfigurationFields GlobalConfiguration

func (c *GlobalConfiguration) UnmarshalJSON(b []byte) error {
	var known globalConfigurationFields
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	extra, err := unknownFields(b, "globalHttpProxySettings")
	if err != nil {
		return err
	}
	*c = GlobalConfiguration(known)
	c.extra = extra
	return nil
}

func (c GlobalConfiguration) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(globalConfigurationFields(c))
	if err != nil {
		return nil, err
	}
	return mergeFields(known, c.extra)
}

type proxySettingsFields RemoteHTTPProxySettings

func (s *RemoteHTTPProxySettings) UnmarshalJSON(b []byte) error {
	var known proxySettingsFields
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	extra, err := unknownFields(b, "proxyHostname", "proxyPort", "nonProxyHosts", "authentication")
	if err != nil {
		return err
	}
	*s = RemoteHTTPProxySettings(known)
	s.extra = extra
	return nil
}

func (s RemoteHTTPProxySettings) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(proxySettingsFields(s))
	if err != nil {
		return nil, err
	}
	return mergeFields(known, s.extra)
}

// unknownFields returns the members of the JSON object b not named in known,
// or nil when there are none. Names compare case-insensitively, the same way
// encoding/json assigns members to struct fields.
func unknownFields(b []byte, known ...string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for name := range fields {
		for _, k := range known {
			if strings.EqualFold(name, k) {
				delete(fields, name)
				break
			}
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// mergeFields adds extra members to the JSON object known. Members already
// present in known win.
func mergeFields(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return known, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := fields[k]; ok {
			continue
		}
		if len(bytes.TrimSpace(v)) == 0 {
			continue
		}
		fields[k] = v
	}
	return json.Marshal(fields)
}
