package app

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rpk/internal/types"
)

// Watch blocks until the server reports a version different from the
// one observed at loop entry, then returns that report. A remote
// answer of "no such package" fails immediately with CodeNotFound;
// every other transport failure is retried after a fixed backoff,
// indefinitely. Cancelling the context aborts the loop at the next
// suspension point.
func (s Service) Watch(ctx context.Context, desc types.Descriptor) (types.RemoteInfo, error) {
	if err := validateDescriptor(ctx, desc); err != nil {
		return types.RemoteInfo{}, err
	}
	start, err := s.Transport.Info(ctx, desc)
	if err != nil {
		return types.RemoteInfo{}, err
	}
	backoff := s.WatchBackoff
	if backoff <= 0 {
		backoff = defaultWatchBackoff
	}
	for {
		info, err := s.Transport.Watch(ctx, desc)
		switch {
		case err == nil:
			if info.Version != start.Version {
				return info, nil
			}
		case errbuilder.CodeOf(err) == errbuilder.CodeNotFound:
			return types.RemoteInfo{}, err
		default:
			select {
			case <-ctx.Done():
				return types.RemoteInfo{}, ctx.Err()
			case <-time.After(backoff):
			}
		}
		if ctx.Err() != nil {
			return types.RemoteInfo{}, ctx.Err()
		}
	}
}
