package bpmn20

const (
	NamespaceBpmn  = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	NamespaceZeebe = "http://camunda.org/schema/zeebe/1.0"
)

type ElementType string

const (
	ElementTypeProcess      ElementType = "PROCESS"
	ElementTypeSequenceFlow ElementType = "SEQUENCE_FLOW"
)

type TBaseElement struct {
	// This attribute is used to uniquely identify BPMN elements. The id is
	// REQUIRED if this element is referenced or intended to be referenced by
	// something else.
	Id string `xml:"id,attr"`

	// Name is the human readable label, empty when the modeler left it out.
	Name string `xml:"name,attr"`

	// LocalName is the xml element name, e.g. userTask or sequenceFlow.
	LocalName string `xml:"-"`
}

func (t TBaseElement) GetId() string {
	return t.Id
}

func (t TBaseElement) GetName() string {
	return t.Name
}

type BaseElement interface {
	GetId() string
	GetName() string
}
