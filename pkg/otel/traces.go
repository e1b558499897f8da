package otel

const (
	Prefix                        = "zeebe-"
	AttributeRecordKey            = Prefix + "record-key"
	AttributeCategory             = "category"
	AttributeIntent               = Prefix + "intent"
	AttributeStream               = Prefix + "stream"
	AttributeEntryId              = Prefix + "entry-id"
	AttributeProcessDefinitionKey = Prefix + "definition-key"
	AttributeOutcome              = "outcome"
	AttributeFaultKind            = "kind"
	AttributeResult               = "result"
)
