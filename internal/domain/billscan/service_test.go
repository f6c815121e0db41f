package billscan

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jedalosa/energymatch/internal/infra/llm/gemini"
)

func TestAnalyzeExtractsBillFigures(t *testing.T) {
	client := &stubChatClient{resp: textResponse(`{"consumption":850,"cost":722500,"rate":850,"hasPeaks":true}`)}
	svc := NewService(testConfig(), client, newTestLogger())

	extract := svc.Analyze(context.Background(), testDocument())
	require.Equal(t, 850.0, extract.Consumption)
	require.Equal(t, 722500.0, extract.Cost)
	require.Equal(t, 850.0, extract.Rate)
	require.True(t, extract.HasPeaks)
}

func TestAnalyzeSendsInlineDocument(t *testing.T) {
	client := &stubChatClient{resp: textResponse(`{"consumption":0,"cost":0,"rate":0,"hasPeaks":false}`)}
	svc := NewService(testConfig(), client, newTestLogger())

	doc := testDocument()
	svc.Analyze(context.Background(), doc)

	require.Len(t, client.lastRequest.Contents, 1)
	parts := client.lastRequest.Contents[0].Parts
	require.Len(t, parts, 2)

	require.NotNil(t, parts[0].InlineData)
	require.Equal(t, "image/png", parts[0].InlineData.MimeType)
	require.Equal(t, base64.StdEncoding.EncodeToString(doc.Data), parts[0].InlineData.Data)

	require.Contains(t, parts[1].Text, "Monthly Consumption in kWh")
	require.Equal(t, "application/json", client.lastRequest.GenerationConfig.ResponseMIMEType)
}

func TestAnalyzeDegradesToZeroedExtract(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		client := &stubChatClient{err: errors.New("status=503")}
		svc := NewService(testConfig(), client, newTestLogger())

		require.Equal(t, Extract{}, svc.Analyze(context.Background(), testDocument()))
	})

	t.Run("malformed reply", func(t *testing.T) {
		client := &stubChatClient{resp: textResponse("I could not read the bill")}
		svc := NewService(testConfig(), client, newTestLogger())

		require.Equal(t, Extract{}, svc.Analyze(context.Background(), testDocument()))
	})
}

func TestAnalyzeClampsNegativeFigures(t *testing.T) {
	client := &stubChatClient{resp: textResponse(`{"consumption":-850,"cost":-1,"rate":-850,"hasPeaks":false}`)}
	svc := NewService(testConfig(), client, newTestLogger())

	extract := svc.Analyze(context.Background(), testDocument())
	require.Equal(t, Extract{}, extract)
}

func TestAnalyzeStripsCodeFences(t *testing.T) {
	client := &stubChatClient{resp: textResponse("```json\n{\"consumption\":420,\"cost\":380000,\"rate\":905,\"hasPeaks\":false}\n```")}
	svc := NewService(testConfig(), client, newTestLogger())

	extract := svc.Analyze(context.Background(), testDocument())
	require.Equal(t, 420.0, extract.Consumption)
}

func testConfig() Config {
	return Config{Model: "gemini-2.5-flash", Temperature: 0.2}
}

func testDocument() Document {
	return Document{Data: []byte("fake-png-bytes"), MimeType: "image/png"}
}

func textResponse(text string) gemini.GenerateContentResponse {
	return gemini.GenerateContentResponse{
		Candidates: []struct {
			Content      gemini.Content `json:"content"`
			FinishReason string         `json:"finishReason"`
		}{
			{Content: gemini.Content{Role: "model", Parts: []gemini.Part{{Text: text}}}},
		},
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubChatClient struct {
	resp        gemini.GenerateContentResponse
	err         error
	lastRequest gemini.GenerateContentRequest
}

func (s *stubChatClient) GenerateContent(_ context.Context, _ string, req gemini.GenerateContentRequest) (gemini.GenerateContentResponse, error) {
	s.lastRequest = req
	if s.err != nil {
		return gemini.GenerateContentResponse{}, s.err
	}
	return s.resp, nil
}
