// CLAUDE:SUMMARY XML response parsing: well-formedness check, token-level item scan, typed patent/citation extraction.
package kipris

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// document is a well-formed XML response body. The registry nests its item
// elements at varying depths across services, so lookups scan the token
// stream for elements by local name rather than assuming a fixed envelope.
type document struct {
	data []byte
}

// parseDocument verifies that data is well-formed XML. The registry's sparse
// schema makes missing elements normal, but a body that does not decode at
// all is a hard failure.
func parseDocument(data []byte) (*document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if !sawRoot {
				return nil, errors.New("no root element")
			}
			return &document{data: data}, nil
		}
		if err != nil {
			return nil, err
		}
		if _, ok := tok.(xml.StartElement); ok {
			sawRoot = true
		}
	}
}

// each calls fn for every element named tag, in document order.
func (d *document) each(tag string, fn func(dec *xml.Decoder, se xml.StartElement) error) error {
	dec := xml.NewDecoder(bytes.NewReader(d.data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != tag {
			continue
		}
		if err := fn(dec, se); err != nil {
			return err
		}
	}
}

// intText returns the integer content of the first element named tag, or 0
// when the element is absent or non-numeric.
func (d *document) intText(tag string) int {
	var text string
	found := false
	_ = d.each(tag, func(dec *xml.Decoder, se xml.StartElement) error {
		if found {
			return dec.Skip()
		}
		var v struct {
			Value string `xml:",chardata"`
		}
		if err := dec.DecodeElement(&v, &se); err != nil {
			return err
		}
		text = strings.TrimSpace(v.Value)
		found = true
		return nil
	})
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}

// patentItem mirrors one PatentUtilityInfo element. Tag names must match the
// registry exactly.
type patentItem struct {
	ApplicationNumber  string `xml:"ApplicationNumber"`
	ApplicationDate    string `xml:"ApplicationDate"`
	InventionName      string `xml:"InventionName"`
	Applicant          string `xml:"Applicant"`
	RegistrationStatus string `xml:"RegistrationStatus"`
	OpeningNumber      string `xml:"OpeningNumber"`
	OpeningDate        string `xml:"OpeningDate"`
	RegistrationNumber string `xml:"RegistrationNumber"`
	RegistrationDate   string `xml:"RegistrationDate"`
	Abstract           string `xml:"Abstract"`
	IPCNumber          string `xml:"InternationalpatentclassificationNumber"`
}

// citingItem mirrors one citingInfo element of the citation service.
type citingItem struct {
	ApplicationNumber                 string `xml:"ApplicationNumber"`
	StandardCitationApplicationNumber string `xml:"StandardCitationApplicationNumber"`
	StandardStatusCode                string `xml:"StandardStatusCode"`
	StandardStatusCodeName            string `xml:"StandardStatusCodeName"`
	CitationLiteratureTypeCode        string `xml:"CitationLiteratureTypeCode"`
	CitationLiteratureTypeCodeName    string `xml:"CitationLiteratureTypeCodeName"`
}

// parsePatent maps a decoded item onto a Patent record. In non-detailed mode
// Abstract and IPCNumber stay nil so the keys are omitted from serialized
// output; in detailed mode they are set whenever the registry sent a value.
func parsePatent(item *patentItem, detailed bool) Patent {
	p := Patent{
		ApplicationNumber:  strings.TrimSpace(item.ApplicationNumber),
		ApplicationDate:    strings.TrimSpace(item.ApplicationDate),
		Title:              strings.TrimSpace(item.InventionName),
		Applicant:          strings.TrimSpace(item.Applicant),
		RegistrationStatus: strings.TrimSpace(item.RegistrationStatus),
		OpeningNumber:      strings.TrimSpace(item.OpeningNumber),
		OpeningDate:        strings.TrimSpace(item.OpeningDate),
		RegistrationNumber: strings.TrimSpace(item.RegistrationNumber),
		RegistrationDate:   strings.TrimSpace(item.RegistrationDate),
	}
	if detailed {
		if v := strings.TrimSpace(item.Abstract); v != "" {
			p.Abstract = &v
		}
		if v := strings.TrimSpace(item.IPCNumber); v != "" {
			p.IPCNumber = &v
		}
	}
	return p
}

// collectPatents extracts every PatentUtilityInfo element in document order.
func collectPatents(doc *document, detailed bool) ([]Patent, error) {
	patents := []Patent{}
	err := doc.each("PatentUtilityInfo", func(dec *xml.Decoder, se xml.StartElement) error {
		var item patentItem
		if err := dec.DecodeElement(&item, &se); err != nil {
			return err
		}
		patents = append(patents, parsePatent(&item, detailed))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patents, nil
}

// collectCitations extracts every citingInfo element in document order.
func collectCitations(doc *document) ([]Citation, error) {
	citations := []Citation{}
	err := doc.each("citingInfo", func(dec *xml.Decoder, se xml.StartElement) error {
		var item citingItem
		if err := dec.DecodeElement(&item, &se); err != nil {
			return err
		}
		citations = append(citations, Citation{
			CitingApplicationNumber: strings.TrimSpace(item.ApplicationNumber),
			StandardCitationNumber:  strings.TrimSpace(item.StandardCitationApplicationNumber),
			StatusCode:              strings.TrimSpace(item.StandardStatusCode),
			StatusName:              strings.TrimSpace(item.StandardStatusCodeName),
			CitationTypeCode:        strings.TrimSpace(item.CitationLiteratureTypeCode),
			CitationTypeName:        strings.TrimSpace(item.CitationLiteratureTypeCodeName),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return citations, nil
}
