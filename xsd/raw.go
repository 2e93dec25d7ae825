package xsd

import "encoding/xml"

// The raw* types mirror the subset of XML Schema syntax the reader
// understands. Tags match on local names so any namespace prefix works.

type rawSchema struct {
	XMLName         xml.Name         `xml:"schema"`
	TargetNamespace string           `xml:"targetNamespace,attr"`
	Attrs           []xml.Attr       `xml:",any,attr"`
	Includes        []rawInclude     `xml:"include"`
	Elements        []rawElement     `xml:"element"`
	ComplexTypes    []rawComplexType `xml:"complexType"`
	SimpleTypes     []rawSimpleType  `xml:"simpleType"`
	Groups          []rawGroup       `xml:"group"`
}

type rawInclude struct {
	SchemaLocation string `xml:"schemaLocation,attr"`
}

type rawElement struct {
	Name        string          `xml:"name,attr"`
	Type        string          `xml:"type,attr"`
	Ref         string          `xml:"ref,attr"`
	MinOccurs   string          `xml:"minOccurs,attr"`
	MaxOccurs   string          `xml:"maxOccurs,attr"`
	ComplexType *rawComplexType `xml:"complexType"`
	SimpleType  *rawSimpleType  `xml:"simpleType"`
}

type rawComplexType struct {
	Name           string         `xml:"name,attr"`
	Sequence       *rawModelGroup `xml:"sequence"`
	Choice         *rawModelGroup `xml:"choice"`
	All            *rawModelGroup `xml:"all"`
	Group          *rawGroupRef   `xml:"group"`
	SimpleContent  *rawContent    `xml:"simpleContent"`
	ComplexContent *rawContent    `xml:"complexContent"`
}

type rawContent struct {
	Extension   *rawDerivation `xml:"extension"`
	Restriction *rawDerivation `xml:"restriction"`
}

type rawDerivation struct {
	Base     string         `xml:"base,attr"`
	Sequence *rawModelGroup `xml:"sequence"`
	Choice   *rawModelGroup `xml:"choice"`
	All      *rawModelGroup `xml:"all"`
	Group    *rawGroupRef   `xml:"group"`
}

type rawSimpleType struct {
	Name        string          `xml:"name,attr"`
	Restriction *rawRestriction `xml:"restriction"`
	List        *rawList        `xml:"list"`
	Union       *rawUnion       `xml:"union"`
}

type rawRestriction struct {
	Base       string         `xml:"base,attr"`
	SimpleType *rawSimpleType `xml:"simpleType"`
}

type rawList struct {
	ItemType string `xml:"itemType,attr"`
}

type rawUnion struct {
	MemberTypes string `xml:"memberTypes,attr"`
}

type rawGroup struct {
	Name     string         `xml:"name,attr"`
	Sequence *rawModelGroup `xml:"sequence"`
	Choice   *rawModelGroup `xml:"choice"`
	All      *rawModelGroup `xml:"all"`
}

type rawGroupRef struct {
	Ref string `xml:"ref,attr"`
}

// rawParticle is one entry of a model group: an element, a nested
// sequence/choice/all, or a reference to a named group.
type rawParticle struct {
	Element  *rawElement
	Group    *rawModelGroup
	GroupRef string
}

// rawModelGroup keeps particles in document order, which struct tags alone
// cannot do across different child element names.
type rawModelGroup struct {
	Particles []rawParticle
}

func (g *rawModelGroup) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "element":
				var e rawElement
				if err := d.DecodeElement(&e, &t); err != nil {
					return err
				}
				g.Particles = append(g.Particles, rawParticle{Element: &e})
			case "sequence", "choice", "all":
				var nested rawModelGroup
				if err := d.DecodeElement(&nested, &t); err != nil {
					return err
				}
				g.Particles = append(g.Particles, rawParticle{Group: &nested})
			case "group":
				var ref rawGroupRef
				if err := d.DecodeElement(&ref, &t); err != nil {
					return err
				}
				g.Particles = append(g.Particles, rawParticle{GroupRef: ref.Ref})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}
