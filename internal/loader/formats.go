package loader

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("document is empty")

// document is the shared YAML/JSON layout.
type document struct {
	Programmers []network.ProgrammerSpec `json:"programmers" yaml:"programmers"`
}

type xmlNetwork struct {
	XMLName     xml.Name        `xml:"Network"`
	Programmers []xmlProgrammer `xml:"Programmer"`
}

type xmlProgrammer struct {
	Name            string   `xml:"name,attr"`
	Recommendations []string `xml:"Recommendations>Recommendation"`
	Skills          []string `xml:"Skills>Skill"`
}

func decodeXML(data []byte) ([]network.ProgrammerSpec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyDocument
	}
	var doc xmlNetwork
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	specs := make([]network.ProgrammerSpec, 0, len(doc.Programmers))
	for _, p := range doc.Programmers {
		specs = append(specs, network.ProgrammerSpec{
			Name:            strings.TrimSpace(p.Name),
			Skills:          trimAll(p.Skills),
			Recommendations: trimAll(p.Recommendations),
		})
	}
	return specs, nil
}

func decodeYAML(data []byte) ([]network.ProgrammerSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode yaml: trailing document")
	}
	return doc.Programmers, nil
}

func decodeJSON(data []byte) ([]network.ProgrammerSpec, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decode json: trailing data after document")
	}
	return doc.Programmers, nil
}

type hclDocument struct {
	Programmers []hclProgrammer `hcl:"programmer,block"`
}

type hclProgrammer struct {
	Name            string   `hcl:"name,label"`
	Skills          []string `hcl:"skills,optional"`
	Recommendations []string `hcl:"recommendations,optional"`
}

func decodeHCL(data []byte, filename string) ([]network.ProgrammerSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl: %s", diags.Error())
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("decode hcl: %s", diags.Error())
	}

	specs := make([]network.ProgrammerSpec, 0, len(doc.Programmers))
	for _, p := range doc.Programmers {
		specs = append(specs, network.ProgrammerSpec{
			Name:            p.Name,
			Skills:          p.Skills,
			Recommendations: p.Recommendations,
		})
	}
	return specs, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
