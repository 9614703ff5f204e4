package payloadschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateBatchPayloadAccepted(t *testing.T) {
	t.Parallel()

	payload := `{
		"payload_version": "v1",
		"threshold": 25,
		"records": [
			{
				"title": "KT 로밍 요금제 인하",
				"snippet": "해외 로밍 요금제를 인하한다",
				"link": "https://news.naver.com/article/1",
				"source": "Naver News",
				"published": "Mon, 19 Jan 2026 12:00:00 +0900",
				"type": "domestic"
			},
			{
				"title": "Global eSIM market outlook"
			}
		]
	}`

	batch, err := ValidateBatchPayload(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("ValidateBatchPayload failed: %v", err)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(batch.Records))
	}
	if batch.Threshold != 25 {
		t.Fatalf("threshold = %v, want 25", batch.Threshold)
	}
}

func TestValidateBatchPayloadRejected(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "empty payload",
			payload: "",
			wantErr: "payload is empty",
		},
		{
			name:    "trailing content",
			payload: `{"payload_version":"v1","records":[]} trailing`,
			wantErr: "trailing",
		},
		{
			name:    "wrong version",
			payload: `{"payload_version":"v2","records":[]}`,
			wantErr: "payload_version",
		},
		{
			name:    "missing records",
			payload: `{"payload_version":"v1"}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "blank title",
			payload: `{"payload_version":"v1","records":[{"title":" "}]}`,
			wantErr: "title",
		},
		{
			name:    "unknown origin type",
			payload: `{"payload_version":"v1","records":[{"title":"t","type":"martian"}]}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "unknown top-level field",
			payload: `{"payload_version":"v1","records":[],"extra":1}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "bad link",
			payload: `{"payload_version":"v1","records":[{"title":"t","link":"not a uri"}]}`,
			wantErr: "link",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateBatchPayload(json.RawMessage(tc.payload))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}
