package util

import (
	"testing"
)

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"host and port", "proxy.example.com:3128", "proxy.example.com", 3128, false},
		{"ipv4", "10.0.0.1:8080", "10.0.0.1", 8080, false},
		{"ipv6", "[::1]:8080", "::1", 8080, false},
		{"missing port", "proxy.example.com", "", 0, true},
		{"non numeric port", "proxy:http", "", 0, true},
		{"port zero", "proxy:0", "", 0, true},
		{"port too large", "proxy:70000", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := SplitHostPort(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitHostPort(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if host != tt.wantHost || port != tt.wantPort {
				t.Errorf("SplitHostPort(%q) = %s, %d, want %s, %d", tt.addr, host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestParsePort(t *testing.T) {
	if p, err := ParsePort("65535"); err != nil || p != 65535 {
		t.Errorf("ParsePort(65535) = %d, %v", p, err)
	}
	if _, err := ParsePort("-1"); err == nil {
		t.Error("ParsePort(-1) should fail")
	}
}

func TestJoinHostPort(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"proxy.example.com", 3128, "proxy.example.com:3128"},
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		if got := JoinHostPort(tt.host, tt.port); got != tt.want {
			t.Errorf("JoinHostPort(%s, %d) = %s, want %s", tt.host, tt.port, got, tt.want)
		}
	}
}
