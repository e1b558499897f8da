// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package bpmn20

import (
	"encoding/xml"
	"fmt"

	"github.com/pbinitiative/zenbpm-importer/pkg/bpmn/model/extensions"
)

// TDefinitions is the parsed definition document. It keeps only what the projection
// reads from it: processes, embedded user task forms and every element carrying an id.
type TDefinitions struct {
	TBaseElement
	TargetNamespace string `xml:"targetNamespace,attr"`
	Exporter        string `xml:"exporter,attr"`
	ExporterVersion string `xml:"exporterVersion,attr"`

	Processes     []TProcess                 `xml:"-"`
	UserTaskForms []extensions.TUserTaskForm `xml:"-"`

	baseElements map[string]TBaseElement
}

func Parse(data []byte) (*TDefinitions, error) {
	var definitions TDefinitions
	if err := xml.Unmarshal(data, &definitions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal xml data: %w", err)
	}
	return &definitions, nil
}

func (definitions *TDefinitions) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	definitions.LocalName = start.Name.Local
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			definitions.Id = attr.Value
		case "name":
			definitions.Name = attr.Value
		case "targetNamespace":
			definitions.TargetNamespace = attr.Value
		case "exporter":
			definitions.Exporter = attr.Value
		case "exporterVersion":
			definitions.ExporterVersion = attr.Value
		}
	}
	definitions.baseElements = make(map[string]TBaseElement)

	depth := 1
	for depth > 0 {
		token, err := d.Token()
		if err != nil {
			return fmt.Errorf("failed to unmarshal TDefinitions: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Space == NamespaceZeebe && t.Name.Local == "userTaskForm" {
				var form extensions.TUserTaskForm
				if err := d.DecodeElement(&form, &t); err != nil {
					return fmt.Errorf("failed to unmarshal userTaskForm: %w", err)
				}
				definitions.UserTaskForms = append(definitions.UserTaskForms, form)
				continue
			}
			depth++
			definitions.collect(t)
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func (definitions *TDefinitions) collect(t xml.StartElement) {
	element := TBaseElement{LocalName: t.Name.Local}
	var executable bool
	for _, attr := range t.Attr {
		if attr.Name.Space != "" && attr.Name.Space != t.Name.Space {
			continue
		}
		switch attr.Name.Local {
		case "id":
			element.Id = attr.Value
		case "name":
			element.Name = attr.Value
		case "isExecutable":
			executable = attr.Value == "true"
		}
	}
	if element.Id == "" {
		return
	}
	if _, ok := definitions.baseElements[element.Id]; !ok {
		definitions.baseElements[element.Id] = element
	}
	if t.Name.Space == NamespaceBpmn && t.Name.Local == "process" {
		definitions.Processes = append(definitions.Processes, TProcess{TBaseElement: element, IsExecutable: executable})
	}
}

// FindBaseElementById looks the id up anywhere in the document, diagram elements included.
func (definitions *TDefinitions) FindBaseElementById(id string) (BaseElement, bool) {
	element, ok := definitions.baseElements[id]
	if !ok {
		return nil, false
	}
	return element, true
}

// ElementName returns the non empty name of the element with the given id.
func (definitions *TDefinitions) ElementName(id string) (string, bool) {
	element, ok := definitions.baseElements[id]
	if !ok || element.Name == "" {
		return "", false
	}
	return element.Name, true
}
