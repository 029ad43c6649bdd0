package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process to clickhouse (visible in system.query_log)
// role is "hook" or "action"
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()

	type kv = struct{ Name, Version string }
	products := []kv{{Name: "toxicbot", Version: strings.TrimSpace(tag)}}
	if role = strings.TrimSpace(role); role != "" {
		products = append(products, kv{Name: "role", Version: role})
	}
	products = append(products,
		kv{Name: "go", Version: runtime.Version()},
		kv{Name: "commit", Version: revision()},
		kv{Name: "host", Version: host},
	)
	return clickhouse.ClientInfo{Products: products}
}

func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "unknown"
}
