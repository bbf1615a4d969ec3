package signature

import (
	"encoding/json"
	"reflect"
	"runtime"
	"sort"

	"github.com/standardbeagle/sigfind/internal/types"
)

// CacheKey produces a stable, sorted-JSON serialization of ns suitable for
// keying both cache tiers (spec.md §4.1). Regex values serialize as
// {"kind":"regex","source":...,"flags":...}; custom scorer callables
// serialize as {"kind":"callable","name":...} using their resolved
// function name, so two signatures differing only in method/property
// order or in an equivalent regex/callable identity produce the same key.
func CacheKey(ns *types.NormalizedSignature) string {
	projection := projectSignature(ns)
	// Go's map iteration is randomized, so the top-level fields go through
	// an ordered slice of {key,value} pairs; the nested regex/callable maps
	// are stable because encoding/json writes map keys in sorted order.
	b, err := json.Marshal(projection)
	if err != nil {
		// json.Marshal only fails on unsupported types, which projectSignature
		// never produces; a panic here would indicate a programming error.
		panic("signature: cache key projection failed to marshal: " + err.Error())
	}
	return string(b)
}

type kv struct {
	K string      `json:"k"`
	V interface{} `json:"v"`
}

func projectSignature(ns *types.NormalizedSignature) []kv {
	fields := make([]kv, 0, 8)
	if ns.Name != "" {
		fields = append(fields, kv{"name", ns.Name})
	}
	if ns.NameRegex != nil {
		fields = append(fields, kv{"name", map[string]string{
			"kind":   "regex",
			"source": ns.NameRegex.String(),
			"flags":  "",
		}})
	}
	if ns.Type != "" {
		fields = append(fields, kv{"type", string(ns.Type)})
	}
	if ns.Exports != "" {
		fields = append(fields, kv{"exports", ns.Exports})
	}
	if len(ns.Methods) > 0 {
		fields = append(fields, kv{"methods", ns.Methods})
	}
	if len(ns.Properties) > 0 {
		fields = append(fields, kv{"properties", ns.Properties})
	}
	if ns.Extends != "" {
		fields = append(fields, kv{"extends", ns.Extends})
	}
	if ns.Instanceof != "" {
		fields = append(fields, kv{"instanceof", ns.Instanceof})
	}
	if len(ns.Custom) > 0 {
		names := make([]string, 0, len(ns.Custom))
		for _, c := range ns.Custom {
			names = append(names, funcName(c))
		}
		sort.Strings(names)
		callables := make([]map[string]string, 0, len(names))
		for _, n := range names {
			callables = append(callables, map[string]string{"kind": "callable", "name": n})
		}
		fields = append(fields, kv{"custom", callables})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].K < fields[j].K })
	return fields
}

func funcName(f types.CustomScorer) string {
	ptr := reflect.ValueOf(f).Pointer()
	if fn := runtime.FuncForPC(ptr); fn != nil {
		return fn.Name()
	}
	return ""
}
