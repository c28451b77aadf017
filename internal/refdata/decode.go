package refdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type keywordDocument struct {
	Contenido *[]string `json:"contenido"`
}

// DecodeKeywordList parses a {"contenido": [...]} document.
func DecodeKeywordList(data []byte) (KeywordList, error) {
	var doc keywordDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReference, err)
	}
	if doc.Contenido == nil {
		return nil, fmt.Errorf("%w: missing \"contenido\" list", ErrMalformedReference)
	}
	return KeywordList(*doc.Contenido), nil
}

// DecodeIndicators parses the chapter -> role -> indicator document while
// keeping indicator order as written.
func DecodeIndicators(data []byte) (IndicatorTable, error) {
	chapterKeys, chapters, err := orderedObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReference, err)
	}

	table := make(IndicatorTable, len(chapterKeys))
	for _, chapter := range chapterKeys {
		roleKeys, roles, err := orderedObject(chapters[chapter])
		if err != nil {
			return nil, fmt.Errorf("%w: chapter %s: %v", ErrMalformedReference, chapter, err)
		}
		byRole := make(map[string][]Indicator, len(roleKeys))
		for _, role := range roleKeys {
			names, raw, err := orderedObject(roles[role])
			if err != nil {
				return nil, fmt.Errorf("%w: chapter %s role %s: %v", ErrMalformedReference, chapter, role, err)
			}
			indicators := make([]Indicator, 0, len(names))
			for _, name := range names {
				var keywords []string
				if err := json.Unmarshal(raw[name], &keywords); err != nil {
					return nil, fmt.Errorf("%w: indicator %q: %v", ErrMalformedReference, name, err)
				}
				indicators = append(indicators, Indicator{Name: name, Keywords: keywords})
			}
			byRole[role] = indicators
		}
		table[chapter] = byRole
	}
	return table, nil
}

// DecodeAdvice parses the role -> indicator -> advice lines document.
func DecodeAdvice(data []byte) (AdviceTable, error) {
	var table AdviceTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReference, err)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: advice document is null", ErrMalformedReference)
	}
	return table, nil
}

// orderedObject splits a JSON object into its keys, in source order, and
// their raw values. Duplicate keys keep the last value and first position.
func orderedObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("expected JSON object")
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, errors.New("expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, errors.New("unexpected data after object")
	}
	return keys, values, nil
}
