package model

import (
	"time"

	"github.com/lalallama/proposaldesk/database/db"
)

type Operation string

const (
	OperationCreateEvaluation  Operation = "evaluation.create"
	OperationGetReport         Operation = "report.get"
	OperationDownloadReportPDF Operation = "report.pdf"
	OperationSendChatMessage   Operation = "chat.send"
	OperationGetChatHistory    Operation = "chat.history"
)

// Call is one operation handled by the dev server.
type Call struct {
	ID        string
	Operation Operation
	Resource  string
	Mode      Mode
	Succeeded bool
	Called    time.Time
}

func CallFromJournalRow(row db.CallJournal) (*Call, error) {
	mode, err := ParseMode(row.Mode)
	if err != nil {
		return nil, err
	}
	return &Call{
		ID:        row.ID,
		Operation: Operation(row.Operation),
		Resource:  row.Resource,
		Mode:      mode,
		Succeeded: row.Succeeded,
		Called:    row.Called,
	}, nil
}
