package bot

import "context"

type Delivery interface {
	Send(ctx context.Context, recipientID, text string) error
}
