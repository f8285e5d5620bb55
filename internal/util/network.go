package util

import (
	"fmt"
	"net"
	"strconv"
)

// SplitHostPort splits "host:port" into its parts. Unlike net.SplitHostPort
// the port is parsed and range checked.
func SplitHostPort(addr string) (host string, port int, err error) {
	h, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err = ParsePort(p)
	if err != nil {
		return "", 0, err
	}
	return h, port, nil
}

// ParsePort parses a TCP port number.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

// JoinHostPort joins a host and port into a network address.
func JoinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
