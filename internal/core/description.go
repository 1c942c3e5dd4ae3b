package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MultipleServicesType tags a service order whose Description holds a JSON
// array of ServiceLine values instead of plain text.
const MultipleServicesType = "multipleServices"

// Description is either PlainText or ServiceList.
type Description interface {
	isDescription()
}

// PlainText is a free-form service description.
type PlainText string

// ServiceList is the decoded form of a multi-service description.
type ServiceList []ServiceLine

// ServiceLine is one entry of a multi-service order.
type ServiceLine struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

func (PlainText) isDescription()   {}
func (ServiceList) isDescription() {}

// ParseServiceList decodes a multi-service description. An empty or null
// array is rejected since there is nothing to render.
func ParseServiceList(raw string) (ServiceList, error) {
	var lines ServiceList
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDescription, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrMalformedDescription)
	}
	return lines, nil
}

// ParseDescription selects the description variant from the service type.
// Parse failures fall back to PlainText.
func ParseDescription(s ServiceOrder) Description {
	if s.Type != MultipleServicesType {
		return PlainText(s.Description)
	}
	lines, err := ParseServiceList(s.Description)
	if err != nil {
		return PlainText(s.Description)
	}
	return lines
}

// FormatMultiServiceDescription renders a service description for printing,
// one "<Type>: <description> (Cost: $<cost>)" line per entry for multi-service
// orders. It never fails: anything unparsable is returned as-is.
func FormatMultiServiceDescription(s ServiceOrder) string {
	switch d := ParseDescription(s).(type) {
	case ServiceList:
		out := make([]string, 0, len(d))
		for _, l := range d {
			out = append(out, fmt.Sprintf("%s: %s (Cost: $%s)", ServiceTypeLabel(l.Type), l.Description, l.Cost.StringFixed(2)))
		}
		return strings.Join(out, "\n")
	case PlainText:
		return string(d)
	}
	return s.Description
}

// ServiceTypeLabel turns a camelCase service type key into a display label,
// e.g. "oilChange" -> "Oil Change".
func ServiceTypeLabel(key string) string {
	if key == "" {
		return Placeholder
	}
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English).String(b.String())
}
