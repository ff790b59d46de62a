// internal/activities/redis_store.go
package activities

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	apperrors "activity-signup/internal/common/errors"
	"activity-signup/pkg/registry"
)

// Script results below zero are failure markers.
const (
	scriptActivityMissing = -1
	scriptNotRegistered   = -2
)

// KEYS[1] activity hash, KEYS[2] participant list, ARGV[1] email.
var signupScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
local members = redis.call('LRANGE', KEYS[2], 0, -1)
for _, m in ipairs(members) do
  if m == ARGV[1] then
    return 0
  end
end
return redis.call('RPUSH', KEYS[2], ARGV[1])
`)

var unregisterScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
if redis.call('LREM', KEYS[2], 1, ARGV[1]) == 0 then
  return -2
end
return redis.call('LLEN', KEYS[2])
`)

// RedisStore keeps the registry in Redis so several replicas share one roster.
//
//	<prefix>:names                         set of activity names
//	<prefix>:activity:{<name>}             hash description/schedule/max_participants
//	<prefix>:activity:{<name>}:participants list of emails in signup order
//
// The braces are a hash tag so both keys of an activity share a cluster slot.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) namesKey() string {
	return s.prefix + ":names"
}

func (s *RedisStore) activityKey(name string) string {
	return fmt.Sprintf("%s:activity:{%s}", s.prefix, name)
}

func (s *RedisStore) participantsKey(name string) string {
	return s.activityKey(name) + ":participants"
}

// Seed writes seed into Redis. An existing registry is left untouched unless
// overwrite is set. It reports whether anything was written.
func (s *RedisStore) Seed(ctx context.Context, seed *registry.Seed, overwrite bool) (bool, error) {
	existing, err := s.client.SMembers(ctx, s.namesKey()).Result()
	if err != nil {
		return false, apperrors.NewStoreUnavailableError(err)
	}
	if len(existing) > 0 && !overwrite {
		return false, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range existing {
			pipe.Del(ctx, s.activityKey(name), s.participantsKey(name))
		}
		pipe.Del(ctx, s.namesKey())

		for _, name := range seed.Names() {
			def := seed.Activities[name]
			pipe.SAdd(ctx, s.namesKey(), name)
			pipe.HSet(ctx, s.activityKey(name),
				"description", def.Description,
				"schedule", def.Schedule,
				"max_participants", def.MaxParticipants,
			)
			if len(def.Participants) > 0 {
				members := make([]interface{}, len(def.Participants))
				for i, p := range def.Participants {
					members[i] = p
				}
				pipe.RPush(ctx, s.participantsKey(name), members...)
			}
		}
		return nil
	})
	if err != nil {
		return false, apperrors.NewStoreUnavailableError(fmt.Errorf("seed registry: %w", err))
	}
	return true, nil
}

func (s *RedisStore) List(ctx context.Context) (Registry, error) {
	names, err := s.client.SMembers(ctx, s.namesKey()).Result()
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}

	type pending struct {
		attrs        *redis.MapStringStringCmd
		participants *redis.StringSliceCmd
	}
	cmds := make(map[string]pending, len(names))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range names {
			cmds[name] = pending{
				attrs:        pipe.HGetAll(ctx, s.activityKey(name)),
				participants: pipe.LRange(ctx, s.participantsKey(name), 0, -1),
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}

	out := make(Registry, len(names))
	for name, c := range cmds {
		attrs := c.attrs.Val()
		if len(attrs) == 0 {
			continue
		}
		maxParticipants, _ := strconv.Atoi(attrs["max_participants"])
		participants := c.participants.Val()
		if participants == nil {
			participants = []string{}
		}
		out[name] = Activity{
			Description:     attrs["description"],
			Schedule:        attrs["schedule"],
			MaxParticipants: maxParticipants,
			Participants:    participants,
		}
	}
	return out, nil
}

func (s *RedisStore) AddParticipant(ctx context.Context, activity, email string) (int, error) {
	n, err := signupScript.Run(ctx, s.client,
		[]string{s.activityKey(activity), s.participantsKey(activity)}, email).Int()
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError(err)
	}
	switch {
	case n == scriptActivityMissing:
		return 0, apperrors.NewActivityNotFoundError(activity)
	case n == 0:
		return 0, apperrors.NewAlreadySignedUpError(activity, email)
	}
	return n, nil
}

func (s *RedisStore) RemoveParticipant(ctx context.Context, activity, email string) (int, error) {
	n, err := unregisterScript.Run(ctx, s.client,
		[]string{s.activityKey(activity), s.participantsKey(activity)}, email).Int()
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError(err)
	}
	switch n {
	case scriptActivityMissing:
		return 0, apperrors.NewActivityNotFoundError(activity)
	case scriptNotRegistered:
		return 0, apperrors.NewNotRegisteredError(activity, email)
	}
	return n, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}
