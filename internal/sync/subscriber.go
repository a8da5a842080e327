package sync

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Subscriber listens to the server's event stream and turns every wake-up
// into a resync request. The stream carries no payload; the only contract
// is "something changed, poll again".
type Subscriber struct {
	streamURL  string
	token      string
	controller *Controller
	httpClient *http.Client
}

func NewSubscriber(streamURL, token string, controller *Controller) *Subscriber {
	return &Subscriber{
		streamURL:  streamURL,
		token:      token,
		controller: controller,
		httpClient: &http.Client{},
	}
}

// Run reconnects with a fixed backoff until the context is cancelled.
func (subscriber *Subscriber) Run(ctx context.Context) {
	for {
		if err := subscriber.listen(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("event stream disconnected", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (subscriber *Subscriber) listen(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, subscriber.streamURL, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "text/event-stream")
	if subscriber.token != "" {
		request.Header.Set("Authorization", "Bearer "+subscriber.token)
	}

	response, err := subscriber.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	scanner := bufio.NewScanner(response.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") && strings.TrimSpace(strings.TrimPrefix(line, "event:")) == "sync" {
			subscriber.controller.RequestResync()
		}
	}
	return scanner.Err()
}
