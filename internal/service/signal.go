package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/brandproof"
)

const channelPrefix = "brandproof:proofs:"

// Channel is the pub/sub channel carrying proof events of brand.
func Channel(brand string) string {
	return channelPrefix + brandproof.NormalizeBrand(brand)
}

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event brandproof.ProofEvent) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, Channel(event.Brand), jsonstr).Err()
}

// Realtime forwards proof events of the given brands to output until ctx
// is done. output is closed on return.
func (s *SignalService) Realtime(ctx context.Context, brands []string, output chan<- brandproof.ProofEvent) {
	defer close(output)

	channels := make([]string, 0, len(brands))
	for _, b := range brands {
		channels = append(channels, Channel(b))
	}

	pubsub := s.rdb.Subscribe(ctx, channels...)
	defer pubsub.Close()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event brandproof.ProofEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.WarnContext(
					ctx, "dropping malformed proof event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
