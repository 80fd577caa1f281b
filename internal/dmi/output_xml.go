package dmi

import (
	"bytes"
	"encoding/xml"
)

type xmlIcons struct {
	XMLName xml.Name    `xml:"DMIInfo"`
	Icons   []xmlReport `xml:"icon"`
}

type xmlReport struct {
	Ref   string     `xml:"ref,attr,omitempty"`
	Track []xmlTrack `xml:"track"`
}

type xmlTrack struct {
	Type   string     `xml:"type,attr"`
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func RenderXML(reports []Report) string {
	icons := xmlIcons{}
	for _, report := range reports {
		icons.Icons = append(icons.Icons, buildXMLReport(report))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	_ = enc.Encode(icons)
	buf.WriteString("\n")
	return buf.String()
}

func buildXMLReport(report Report) xmlReport {
	tracks := make([]xmlTrack, 0, len(report.Streams)+1)
	tracks = append(tracks, buildXMLTrack(report.General))
	for _, stream := range report.Streams {
		tracks = append(tracks, buildXMLTrack(stream))
	}
	return xmlReport{Ref: report.Ref, Track: tracks}
}

func buildXMLTrack(stream Stream) xmlTrack {
	xmlFields := make([]xmlField, 0, len(stream.Fields))
	for _, field := range stream.Fields {
		xmlFields = append(xmlFields, xmlField{XMLName: xml.Name{Local: field.Key}, Value: field.Value})
	}
	return xmlTrack{Type: string(stream.Kind), Fields: xmlFields}
}
