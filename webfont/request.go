package webfont

import (
	"net/url"
	"strings"
)

// DefaultStyleID is used when family is requested without styles.
const DefaultStyleID = "400"

// FamilyRequest is a family name with requested style ids in client order.
// Neither has to exist in the catalog.
type FamilyRequest struct {
	Name   string
	Styles []string
}

// Request is a parsed CSS generation request.
type Request struct {
	Families []FamilyRequest
	Display  string
}

// ParseRequest parses query of the CSS endpoint:
//
//	family=Open Sans:400,700i|Roboto&display=swap
//
// Returned errors are *RequestError.
func ParseRequest(query url.Values) (*Request, error) {
	family, err := singleValue(query, "family")
	if err != nil {
		return nil, err
	}
	display, err := singleValue(query, "display")
	if err != nil {
		return nil, err
	}

	families, err := ParseFamilies(family)
	if err != nil {
		return nil, err
	}
	return &Request{Families: families, Display: display}, nil
}

// ParseFamilies parses value of the family parameter. Specs of the same
// family are merged so that styles are deduplicated across them.
func ParseFamilies(value string) ([]FamilyRequest, error) {
	if strings.TrimSpace(value) == "" {
		return nil, requestErrorf("The family parameter is required and must not be empty")
	}

	var (
		families []FamilyRequest
		index    = make(map[string]int)
	)
	for i, spec := range strings.Split(value, "|") {
		name, list, _ := strings.Cut(spec, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, requestErrorf("The font family name at position %d is empty", i+1)
		}

		var styles []string
		if strings.TrimSpace(list) == "" {
			styles = []string{DefaultStyleID}
		} else {
			for s := range strings.SplitSeq(list, ",") {
				s = strings.TrimSpace(s)
				if !styleIDRequest.MatchString(s) {
					return nil, requestErrorf("The font style '%s' of family '%s' can't be recognized", s, name)
				}
				styles = append(styles, s)
			}
		}

		if at, ok := index[name]; ok {
			families[at].Styles = append(families[at].Styles, styles...)
			continue
		}
		index[name] = len(families)
		families = append(families, FamilyRequest{Name: name, Styles: styles})
	}
	return families, nil
}

// singleValue makes sure parameter is a plain string: it must not be repeated
// and must not use array notation ("name[]=" or "name[key]=").
func singleValue(query url.Values, name string) (string, error) {
	for key := range query {
		if strings.HasPrefix(key, name+"[") {
			return "", requestErrorf("The %s parameter must be a string", name)
		}
	}
	values := query[name]
	if len(values) > 1 {
		return "", requestErrorf("The %s parameter must be a string", name)
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}
