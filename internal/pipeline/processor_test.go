package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/joseph-ayodele/voucher-standardizer/constants"
	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
	"github.com/joseph-ayodele/voucher-standardizer/internal/llm"
	"github.com/joseph-ayodele/voucher-standardizer/internal/ocr"
	"github.com/joseph-ayodele/voucher-standardizer/internal/render"
)

type fakeText struct {
	res ocr.ExtractionResult
	err error
}

func (f fakeText) Acquire(ctx context.Context, data []byte) (ocr.ExtractionResult, error) {
	return f.res, f.err
}

type fakeFields struct {
	raw    llm.RawFieldMap
	err    error
	gotReq llm.ExtractRequest
	calls  int
}

func (f *fakeFields) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.RawFieldMap, []byte, error) {
	f.calls++
	f.gotReq = req
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.raw, []byte(`{}`), nil
}

type fakeRenderer struct {
	err   error
	calls int
	got   render.Payload
}

func (f *fakeRenderer) Render(ctx context.Context, p render.Payload) ([]byte, error) {
	f.calls++
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 voucher"), nil
}

func completeRaw() llm.RawFieldMap {
	return llm.RawFieldMap{
		{Key: "Guest Name", Value: llm.Str("J. Smith")},
		{Key: "Check-in", Value: llm.Str("2024-03-10")},
		{Key: "Check-out", Value: llm.Str("2024-03-12")},
		{Key: "Confirmation #", Value: llm.Str("ABC123")},
		{Key: "Hotel", Value: llm.Str("Grand Hotel")},
	}
}

func newTestProcessor(text fakeText, fields *fakeFields, r *fakeRenderer) *Processor {
	branding := render.Branding{CompanyName: "CR Holidays", LogoDataURI: "data:image/png;base64,AA=="}
	return NewProcessor(nil, text, fields, nil, branding, r)
}

var scanned = fakeText{res: ocr.ExtractionResult{Text: "HOTEL VOUCHER ...", UsedOCR: true, PageCount: 1, Method: ocr.MethodOCR}}

func TestProcessEndToEnd(t *testing.T) {
	fields := &fakeFields{raw: completeRaw()}
	r := &fakeRenderer{}
	p := newTestProcessor(scanned, fields, r)

	ctx := common.WithSource(context.Background(), "voucher.pdf")
	res, err := p.Process(ctx, []byte("%PDF-1.4"), false)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.RequestID == "" || res.Source != "voucher.pdf" {
		t.Fatalf("request id %q source %q", res.RequestID, res.Source)
	}
	if len(res.Issues) != 0 {
		t.Fatalf("issues = %v", res.Issues)
	}
	if string(res.PDF) != "%PDF-1.7 voucher" {
		t.Fatalf("pdf = %q", res.PDF)
	}
	if res.Payload["hotel_name"] != "Grand Hotel" || r.got["num_nights"] != "2" {
		t.Fatalf("payload = %v", res.Payload)
	}
	if !fields.gotReq.UsedOCR || fields.gotReq.FilenameHint != "voucher.pdf" || fields.gotReq.Text != scanned.res.Text {
		t.Fatalf("oracle request = %+v", fields.gotReq)
	}
}

func TestProcessFatalErrorsReturnZeroResult(t *testing.T) {
	tests := []struct {
		name     string
		text     fakeText
		fields   *fakeFields
		renderer *fakeRenderer
		want     error
	}{
		{"unreadable", fakeText{err: common.UnreadablePDF("bad", nil)}, &fakeFields{}, &fakeRenderer{}, common.ErrUnreadablePDF},
		{"no text", fakeText{res: ocr.ExtractionResult{Text: " \n "}}, &fakeFields{}, &fakeRenderer{}, common.ErrUnreadablePDF},
		{"oracle down", scanned, &fakeFields{err: common.OracleUnavailable("timeout", context.DeadlineExceeded)}, &fakeRenderer{}, common.ErrOracleUnavailable},
		{"oracle malformed", scanned, &fakeFields{err: common.OracleMalformed("not json", nil)}, &fakeRenderer{}, common.ErrOracleMalformed},
		{"render", scanned, &fakeFields{raw: completeRaw()}, &fakeRenderer{err: common.RenderFailed("x", nil)}, common.ErrRender},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(tt.text, tt.fields, tt.renderer)
			res, err := p.Process(context.Background(), []byte("%PDF-"), false)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if res.Record.HotelName != "" || res.Raw != nil || res.PDF != nil || res.Issues != nil {
				t.Fatalf("partial state returned: %+v", res)
			}
		})
	}
}

func TestProcessOracleNotCalledForUnreadablePDF(t *testing.T) {
	fields := &fakeFields{}
	p := newTestProcessor(fakeText{err: common.UnreadablePDF("bad", nil)}, fields, &fakeRenderer{})
	_, _ = p.Process(context.Background(), nil, false)
	if fields.calls != 0 {
		t.Fatalf("oracle called %d times", fields.calls)
	}
}

func TestProcessBlockedByPolicy(t *testing.T) {
	raw := completeRaw()[:3] // no confirmation number, no hotel
	r := &fakeRenderer{}
	p := newTestProcessor(scanned, &fakeFields{raw: raw}, r)

	res, err := p.Process(context.Background(), []byte("%PDF-"), false)
	if !errors.Is(err, common.ErrIncompleteRecord) || common.ErrorCode(err) != common.CodeIncompleteRecord {
		t.Fatalf("err = %v", err)
	}
	if r.calls != 0 || res.PDF != nil {
		t.Fatalf("renderer ran for an incomplete record")
	}
	if res.Record.GuestName != "J. Smith" || len(res.Issues) != 2 {
		t.Fatalf("record/issues not returned: %+v %v", res.Record, res.Issues)
	}
	for _, is := range res.Issues {
		if is.Kind != constants.IssueMissingRequired {
			t.Fatalf("issue = %v", is)
		}
	}

	// force, or a permissive policy, renders anyway with defaults
	res, err = p.Process(context.Background(), []byte("%PDF-"), true)
	if err != nil || res.PDF == nil {
		t.Fatalf("forced render: %v", err)
	}
	if res.Payload["confirmation_number"] != render.DefaultConfirmation {
		t.Fatalf("confirmation = %v", res.Payload["confirmation_number"])
	}

	p.Policy = AllowIncomplete
	if _, err := p.Process(context.Background(), []byte("%PDF-"), false); err != nil {
		t.Fatalf("permissive policy: %v", err)
	}
}

func TestRenderBrandingError(t *testing.T) {
	r := &fakeRenderer{}
	p := NewProcessor(nil, scanned, &fakeFields{raw: completeRaw()}, nil, render.Branding{}, r)
	res, err := p.Process(context.Background(), []byte("%PDF-"), false)
	if !errors.Is(err, common.ErrBrandingConfig) {
		t.Fatalf("err = %v", err)
	}
	if r.calls != 0 || res.Record.HotelName != "" {
		t.Fatalf("render ran or partial state returned")
	}
}

func TestNormalizeReviewedFields(t *testing.T) {
	p := newTestProcessor(scanned, &fakeFields{}, &fakeRenderer{})
	res := p.Normalize(common.WithRequestID(context.Background(), "req-1"), completeRaw())
	if res.RequestID != "req-1" || res.Record.ConfirmationNumber != "ABC123" || len(res.Issues) != 0 {
		t.Fatalf("res = %+v", res)
	}
	res, err := p.Render(context.Background(), res, false)
	if err != nil || res.RequestID != "req-1" || res.PDF == nil {
		t.Fatalf("Render = %+v, %v", res, err)
	}
}
