package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type SlackNotifier struct {
	api       *slack.Client
	channelID string
}

func NewSlackNotifier(api *slack.Client, channelID string) *SlackNotifier {
	return &SlackNotifier{api: api, channelID: channelID}
}

func (n *SlackNotifier) Notify(ctx context.Context, summary ImportSummary) error {
	_, _, err := n.api.PostMessageContext(ctx, n.channelID, slack.MsgOptionText(summary.Text(), false))
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	return nil
}
