package jobs

import (
	"strings"
	"testing"

	"github.com/hostflow/hostflow/internal/finance"
)

func TestDigestBodyListsSuggestedOrders(t *testing.T) {
	rows := []lowStockRow{
		{
			propertyName: "Seaview Cottage",
			item:         finance.Item{Name: "Soap bars", Quantity: 3, MinStock: 5, CostPerUnit: 50},
		},
		{
			propertyName: "Seaview Cottage",
			item:         finance.Item{Name: "Coffee sachets", Quantity: 0, MinStock: 10, CostPerUnit: 25},
		},
	}

	body := digestBody(rows)

	if !strings.Contains(body, "Seaview Cottage / Soap bars: 3 left (min 5), suggested order 7") {
		t.Fatalf("soap line missing, got:\n%s", body)
	}
	if !strings.Contains(body, "Coffee sachets: 0 left (min 10), suggested order 20") {
		t.Fatalf("coffee line missing, got:\n%s", body)
	}
}

func TestSendEmailTaskRoundTrip(t *testing.T) {
	task, err := NewSendEmailTask(SendEmailPayload{To: "host@example.com", Subject: "s", Body: "b"})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if task.Type() != TaskTypeSendEmail {
		t.Fatalf("type = %q", task.Type())
	}
	if !strings.Contains(string(task.Payload()), "host@example.com") {
		t.Fatalf("payload = %s", task.Payload())
	}
}
