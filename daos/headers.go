package daos

import (
	"net/textproto"
	"strings"
)

// Headers is the small, case-insensitive header bag the core consumes
//: only Accept-Profile, Content-Profile, and Prefer are interpreted.
type Headers map[string]string

// NewHeaders builds a Headers bag from a multi-value header map (e.g.
// an http.Header), canonicalizing keys and taking the first value of
// each, with internal commas in a single value already preserved.
func NewHeaders(src map[string][]string) Headers {
	h := make(Headers, len(src))
	for k, vs := range src {
		if len(vs) == 0 {
			continue
		}
		h[textproto.CanonicalMIMEHeaderKey(k)] = vs[0]
	}
	return h
}

func (h Headers) get(name string) string {
	return strings.TrimSpace(h[textproto.CanonicalMIMEHeaderKey(name)])
}

// resolveSchema applies the resolution precedence: explicit `schema.table`
// in the path, then the method-appropriate profile header, then defaultSchema.
// pathSpec is the raw path segment after the leading `/` (e.g. "schema.table"
// or "table" or, for RPC, "schema.function"/"function").
func resolveSchema(method, pathSpec string, headers Headers, defaultSchema string) (schema, name string, err error) {
	dots := strings.Count(pathSpec, ".")
	switch dots {
	case 0:
		name = pathSpec
	case 1:
		parts := strings.SplitN(pathSpec, ".", 2)
		schema, name = parts[0], parts[1]
		if err := validateIdentifier("path", schema); err != nil {
			return "", "", err
		}
	default:
		return "", "", newParseErr(ParseInvalidSchemaPath, "path", pathSpec)
	}

	if err := validateIdentifier("path", name); err != nil {
		return "", "", err
	}

	if schema != "" {
		return schema, name, nil
	}

	profileHeader := "Accept-Profile"
	if method != "GET" {
		profileHeader = "Content-Profile"
	}
	if v := headers.get(profileHeader); v != "" {
		if err := validateIdentifier(profileHeader, v); err != nil {
			return "", "", err
		}
		return v, name, nil
	}

	return defaultSchema, name, nil
}

// parsePrefer decodes the Prefer header into PreferOptions.
// Parsing is total: it never fails, it only populates what it recognizes,
// silently skipping unknown tokens.
func parsePrefer(headers Headers) PreferOptions {
	var opts PreferOptions
	raw := headers.get("Prefer")
	if raw == "" {
		return opts
	}

	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		kv := strings.SplitN(tok, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.ToLower(strings.TrimSpace(kv[1]))

		switch key {
		case "return":
			switch val {
			case "representation":
				r := ReturnFull
				opts.ReturnRepresentation = &r
			case "minimal":
				r := ReturnMinimal
				opts.ReturnRepresentation = &r
			case "headers-only":
				r := ReturnHeadersOnly
				opts.ReturnRepresentation = &r
			}
		case "resolution":
			switch val {
			case "merge-duplicates":
				r := ResolutionMergeDuplicates
				opts.Resolution = &r
			case "ignore-duplicates":
				r := ResolutionIgnoreDuplicates
				opts.Resolution = &r
			}
		case "count":
			switch val {
			case "exact":
				c := CountExact
				opts.Count = &c
			case "planned":
				c := CountPlanned
				opts.Count = &c
			case "estimated":
				c := CountEstimated
				opts.Count = &c
			}
		case "plurality":
			switch val {
			case "singular":
				pl := PluralitySingular
				opts.Plurality = &pl
			case "multiple":
				pl := PluralityMultiple
				opts.Plurality = &pl
			}
		case "missing":
			switch val {
			case "default":
				m := MissingDefault
				opts.Missing = &m
			case "null":
				m := MissingNull
				opts.Missing = &m
			}
		}
	}

	return opts
}
