package bpmn20

type TProcess struct {
	TBaseElement
	IsExecutable bool `xml:"isExecutable,attr"`
}

// ProcessName returns the name of the process with the given id. When no process carries
// the id the first process of the document is used, documents with a single pool do not
// always repeat the id of the deployed process.
func (definitions *TDefinitions) ProcessName(bpmnProcessId string) (string, bool) {
	if len(definitions.Processes) == 0 {
		return "", false
	}
	for _, p := range definitions.Processes {
		if p.Id == bpmnProcessId {
			return p.Name, true
		}
	}
	return definitions.Processes[0].Name, true
}
