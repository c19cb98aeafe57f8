package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"sort"
	"strconv"
	"strings"
)

// DSN returns the connection string for the configured driver. An explicit
// URL always wins over the discrete fields.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == DriverMySQL {
		return c.mysqlDSN()
	}
	return c.postgresDSN()
}

func (c DatabaseConfig) postgresDSN() string {
	parts := []string{
		"host=" + quoteDSNValue(c.Host),
		"port=" + strconv.Itoa(c.Port),
	}
	if c.User != "" {
		parts = append(parts, "user="+quoteDSNValue(c.User))
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(c.Password))
	}
	if c.Name != "" {
		parts = append(parts, "dbname="+quoteDSNValue(c.Name))
	}
	parts = append(parts, "sslmode="+quoteDSNValue(c.SSLMode))
	for _, k := range sortedKeys(c.Params) {
		parts = append(parts, k+"="+quoteDSNValue(c.Params[k]))
	}
	return strings.Join(parts, " ")
}

func (c DatabaseConfig) mysqlDSN() string {
	params := neturl.Values{}
	for k, v := range c.Params {
		if v != "" {
			params.Set(k, v)
		}
	}
	if params.Get("charset") == "" {
		params.Set("charset", "utf8mb4")
	}
	if params.Get("parseTime") == "" {
		params.Set("parseTime", "True")
	}
	if params.Get("loc") == "" {
		params.Set("loc", "UTC")
	}

	auth := ""
	if c.User != "" {
		auth = c.User
		if c.Password != "" {
			auth += ":" + c.Password
		}
		auth += "@"
	}
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	return fmt.Sprintf("%stcp(%s)/%s?%s", auth, addr, c.Name, params.Encode())
}

func quoteDSNValue(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
