package router

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
)

const masked = "***"

// masker hides secret-bearing headers and JSON fields in request/response logs.
// Keys are matched case-insensitively at any depth.
type masker map[string]struct{}

func newMasker(cfg config.Config) masker {
	fields := slices.Clone(instrument.DefaultMaskFields)
	if cfg != nil {
		fields = append(fields, cfg.GetArray("instrument.log_mask_fields")...)
	}

	return lo.SliceToMap(fields, func(f string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(f)), struct{}{}
	})
}

func (m masker) hides(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

func (m masker) headers(h http.Header) http.Header {
	out := h.Clone()
	for key := range out {
		if m.hides(key) {
			out.Set(key, masked)
		}
	}
	return out
}

func (m masker) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return lo.MapEntries(val, func(k string, inner any) (string, any) {
			if m.hides(k) {
				return k, masked
			}
			return k, m.value(inner)
		})
	case []any:
		return lo.Map(val, func(inner any, _ int) any { return m.value(inner) })
	default:
		return v
	}
}

// body turns a captured body into something safe to log. Only JSON objects and
// arrays are logged field by field; any other body is logged as its length.
func (m masker) body(b []byte, truncated bool) any {
	if len(b) == 0 {
		return nil
	}

	var out any
	var parsed any
	err := json.Unmarshal(b, &parsed)
	switch {
	case err == nil && isContainer(parsed):
		out = m.value(parsed)
	case utf8.Valid(b):
		out = map[string]any{"text_bytes": len(b)}
	default:
		out = map[string]any{"binary_bytes": len(b)}
	}

	if truncated {
		return map[string]any{"body": out, "truncated": true}
	}
	return out
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}
