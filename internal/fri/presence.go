package fri

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// member describes one JSON key of the record. Members without the
// optional flag must be present and non-null. Nested members are checked
// on an object value, or on every element when each is set.
type member struct {
	name     string
	optional bool
	each     bool
	members  []member
}

func req(name string, members ...member) member {
	return member{name: name, members: members}
}

func opt(name string, members ...member) member {
	return member{name: name, optional: true, members: members}
}

// list is an optional array whose elements carry the given members.
func list(name string, members ...member) member {
	return member{name: name, optional: true, each: true, members: members}
}

var quantityMembers = []member{
	req("order_quantity"),
	req("order_carton"),
	req("presented_quantity"),
	req("presented_carton"),
}

var categoryMembers = []member{
	req("critical"),
	req("major"),
	req("minor"),
}

var defectMembers = []member{
	req("defect_description"),
}

// recordMembers lists the keys an extraction record must carry.
// Zero values are meaningful for counts and flags, so an absent key
// cannot be told apart after decoding and is checked on the raw document.
var recordMembers = []member{
	req("report",
		req("laboratory"),
		req("id_report"),
		req("date_report"),
	),
	req("barcode",
		req("gtin"),
		req("export_carton"),
		req("format_export_carton"),
		req("format_packaging"),
	),
	req("product",
		req("product_label"),
		req("product_description"),
		req("supplier_label"),
		req("supplier_ref"),
		req("manufacturer_label"),
	),
	opt("silica_gel",
		req("carton"),
		req("quantity"),
		req("white_transparent"),
		req("name"),
	),
	req("command_informations",
		list("commands",
			req("po"),
			req("lec"),
			req("quantity", quantityMembers...),
		),
		req("command_total",
			opt("po"),
			opt("lec"),
			req("total_quantity", quantityMembers...),
		),
	),
	req("inspection_conclusion",
		req("style_material"),
		req("function_test"),
		req("workmanship"),
		req("shipping_mark"),
		req("packaging_label"),
		req("measurement"),
		req("barcode_grade"),
	),
	req("overall_inspection_conclusion"),
	req("notes"),
	req("aql",
		req("general_check",
			req("level"),
			req("sample_size"),
			req("no_opened_carton"),
			req("category", categoryMembers...),
			opt("maximum_allowed", categoryMembers...),
			list("defect_description", defectMembers...),
		),
		opt("special_check",
			req("level"),
			req("sample_size"),
			req("category", categoryMembers...),
			opt("maximum_allowed", categoryMembers...),
			list("defect_description", defectMembers...),
		),
	),
	req("shipping_marks",
		req("barcode_conformity_inner_carton"),
		req("barcode_conformity_master_carton"),
	),
}

// missing reports every required key absent from, or null in, the raw
// document. Values of the wrong kind are left to the typed decode.
func missing(data []byte) []Violation {
	var c collector
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil
	}
	c.members("", root, recordMembers)
	return c.violations
}

func (c *collector) members(prefix string, obj map[string]json.RawMessage, members []member) {
	for _, m := range members {
		path := m.name
		if prefix != "" {
			path = prefix + "." + m.name
		}

		raw, ok := obj[m.name]
		if !ok || isNull(raw) {
			if !m.optional {
				c.add(path, "required")
			}
			continue
		}
		if len(m.members) == 0 {
			continue
		}

		if !m.each {
			if nested, ok := object(raw); ok {
				c.members(path, nested, m.members)
			}
			continue
		}

		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		for i, item := range items {
			if nested, ok := object(item); ok {
				c.members(fmt.Sprintf("%s[%d]", path, i), nested, m.members)
			}
		}
	}
}

func object(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
