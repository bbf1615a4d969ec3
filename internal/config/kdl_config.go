package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL reads a single ".discover.kdl" document and parses it into a
// Config, starting from Default(). Unlike the teacher's multi-source
// loader, this never merges a global + project + flag chain: the caller
// is handed one already-merged document and this just parses it.
func LoadKDL(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseKDL(string(content))
}

// ParseKDL parses KDL document text directly, useful for tests and for
// callers that already hold a merged config string.
func ParseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("config: parse KDL: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "discovery":
			parseDiscoveryNode(cfg, n)
		}
	}
	return cfg, nil
}

func parseDiscoveryNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "extensions":
			if vals := collectStringArgs(cn); len(vals) > 0 {
				cfg.Extensions = vals
			}
		case "max_depth":
			if v, ok := firstIntArg(cn); ok {
				cfg.MaxDepth = v
			}
		case "concurrency":
			if v, ok := firstIntArg(cn); ok {
				cfg.Concurrency = v
			}
		case "skip_directories":
			for _, s := range collectStringArgs(cn) {
				cfg.SkipDirectories[s] = struct{}{}
			}
		case "skip_patterns":
			if vals := collectStringArgs(cn); len(vals) > 0 {
				cfg.SkipPatterns = vals
			}
		case "cache":
			parseCacheNode(cfg, cn)
		case "security":
			parseSecurityNode(cfg, cn)
		case "scoring":
			parseScoringNode(cfg, cn)
		}
	}
}

func parseCacheNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "enabled":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Cache.Enabled = b
			}
		case "file":
			if s, ok := firstStringArg(cn); ok {
				cfg.Cache.File = s
			}
		case "ttl":
			if v, ok := firstIntArg(cn); ok {
				cfg.Cache.TTLSeconds = int64(v)
			}
		case "log_warnings":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Cache.LogWarnings = b
			}
		}
	}
}

func parseSecurityNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "allow_unsafe_requires":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Security.AllowUnsafeRequires = b
			}
		case "blocked_tokens":
			if vals := collectStringArgs(cn); len(vals) > 0 {
				cfg.Security.BlockedTokens = vals
			}
		}
	}
}

func parseScoringNode(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "min_candidate_score":
			if v, ok := firstFloatArg(cn); ok {
				cfg.Scoring.MinCandidateScore = v
			}
		case "recency":
			for _, rn := range cn.Children {
				switch nodeName(rn) {
				case "max_bonus":
					if v, ok := firstFloatArg(rn); ok {
						cfg.Scoring.Recency.MaxBonus = v
					}
				case "half_life_hours":
					if v, ok := firstFloatArg(rn); ok {
						cfg.Scoring.Recency.HalfLifeHours = v
					}
				}
			}
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads string values either from a node's inline
// arguments or, for KDL's block form, from its children's node names.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
