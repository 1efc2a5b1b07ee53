package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// remoteDrafter calls an OpenAI-compatible chat completions endpoint to
// rewrite the requester's reason into a polished message.
type remoteDrafter struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func newRemoteDrafter(endpoint, apiKey, model string, timeout time.Duration) *remoteDrafter {
	return &remoteDrafter{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a professional email assistant specializing in leave applications. " +
	"Rephrase the employee's reason formally and write a complete, concise email body " +
	"with a greeting, the enhanced reason, and a professional closing. No subject line."

func (d *remoteDrafter) Draft(ctx context.Context, in Input) (string, error) {
	userPrompt := fmt.Sprintf(
		"Create a professional leave application email with these details:\n\n"+
			"Employee Name: %s\nLeave Type: %s\nStart Date: %s\nEnd Date: %s\nTotal Days: %d\n\n"+
			"Employee's original reason (enhance this professionally):\n%s",
		in.RequesterName,
		in.LeaveType,
		in.StartDate.Format("January 02, 2006"),
		in.EndDate.Format("January 02, 2006"),
		in.Days,
		in.Reason,
	)

	body, err := json.Marshal(chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("draft endpoint returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("draft endpoint returned no content")
	}
	return parsed.Choices[0].Message.Content, nil
}
