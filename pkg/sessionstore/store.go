package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	challengeKeyPrefix = "login_token:"
	sessionKeyPrefix   = "refresh_token:"
	indexKeyPrefix     = "user_sessions:"
)

const (
	consumeStatusNotFound int64 = 0
	consumeStatusMatched  int64 = 1
	consumeStatusMismatch int64 = -1
)

const (
	deactivateStatusNotFound    int64 = 0
	deactivateStatusInactive    int64 = 1
	deactivateStatusExpired     int64 = 2
	deactivateStatusDeactivated int64 = 3
	deactivateStatusCorrupt     int64 = 4
)

// consumeChallengeScript matches the submitted code against the stored one
// and deletes the key only on a match, so a code can be accepted at most
// once even under concurrent verification attempts. A mismatch leaves the
// challenge in place for another try within its TTL.
const consumeChallengeScript = `
local stored = redis.call("GET", KEYS[1])
if not stored then
  return 0
end
if stored ~= ARGV[1] then
  return -1
end
redis.call("DEL", KEYS[1])
return 1
`

var consumeChallengeLua = redis.NewScript(consumeChallengeScript)

// deactivateSessionScript is the conditional write that makes rotation
// one-time-use: it flips is_active only if the record is still active and
// unexpired, preserving the remaining TTL and dropping the token from the
// user's index. Concurrent callers race on the GET inside the script, so at
// most one observes an active record.
const deactivateSessionScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return {0}
end

local ok, sess = pcall(cjson.decode, data)
if not ok or type(sess) ~= "table" or not sess.user_id or not tonumber(sess.exp) then
  return {4}
end

if sess.is_active == false then
  return {1}
end

if tonumber(sess.exp) <= tonumber(ARGV[1]) then
  redis.call("DEL", KEYS[1])
  redis.call("SREM", ARGV[2] .. sess.user_id, ARGV[3])
  return {2}
end

local ttl = redis.call("PTTL", KEYS[1])
if ttl <= 0 then
  return {2}
end

sess.is_active = false
redis.call("SET", KEYS[1], cjson.encode(sess), "PX", ttl)
redis.call("SREM", ARGV[2] .. sess.user_id, ARGV[3])
return {3, data}
`

var deactivateSessionLua = redis.NewScript(deactivateSessionScript)

// Store is the Redis-backed persistence layer for login challenges and
// refresh sessions. It is safe for concurrent use.
type Store struct {
	redis redis.UniversalClient
}

// New creates a Store backed by the given Redis client.
func New(client redis.UniversalClient) *Store {
	return &Store{redis: client}
}

func challengeKey(token string) string { return challengeKeyPrefix + token }
func sessionKey(token string) string   { return sessionKeyPrefix + token }
func indexKey(userID string) string    { return indexKeyPrefix + userID }

// SaveChallenge stores the verification code keyed by the challenge token.
func (s *Store) SaveChallenge(ctx context.Context, token, code string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, challengeKey(token), code, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ConsumeChallenge atomically compares the submitted code against the
// stored one and deletes the challenge on a match. Returns
// ErrChallengeNotFound when no code is stored and ErrChallengeMismatch when
// the code is wrong (the challenge stays valid).
func (s *Store) ConsumeChallenge(ctx context.Context, token, code string) error {
	status, err := consumeChallengeLua.Run(ctx, s.redis, []string{challengeKey(token)}, code).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch status {
	case consumeStatusMatched:
		return nil
	case consumeStatusMismatch:
		return ErrChallengeMismatch
	default:
		return ErrChallengeNotFound
	}
}

// DeleteChallenge removes a challenge unconditionally. Idempotent.
func (s *Store) DeleteChallenge(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, challengeKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// SaveSession writes the session record and adds its token to the owner's
// index in one transaction.
func (s *Store) SaveSession(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sess.Token), data, ttl)
		pipe.SAdd(ctx, indexKey(sess.UserID), sess.Token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// GetSession fetches a session record by refresh token.
func (s *Store) GetSession(ctx context.Context, token string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sess, err := decodeSession(token, data)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// DeactivateSession flips the session to inactive under a compare-and-swap
// and removes it from the user's index. It returns the record as it was
// before deactivation, so the caller learns the owning user without a
// second round trip. Exactly one of any set of concurrent callers succeeds;
// the rest see ErrSessionInactive.
func (s *Store) DeactivateSession(ctx context.Context, token string) (*Session, error) {
	result, err := deactivateSessionLua.Run(
		ctx,
		s.redis,
		[]string{sessionKey(token)},
		time.Now().Unix(),
		indexKeyPrefix,
		token,
	).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	parts, ok := result.([]interface{})
	if !ok || len(parts) == 0 {
		return nil, fmt.Errorf("%w: unexpected script response", ErrUnavailable)
	}
	status, ok := parts[0].(int64)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected script status", ErrUnavailable)
	}

	switch status {
	case deactivateStatusNotFound:
		return nil, ErrSessionNotFound
	case deactivateStatusInactive:
		return nil, ErrSessionInactive
	case deactivateStatusExpired:
		return nil, ErrSessionExpired
	case deactivateStatusCorrupt:
		return nil, ErrCorruptRecord
	case deactivateStatusDeactivated:
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: missing session payload", ErrUnavailable)
		}

		var data []byte
		switch v := parts[1].(type) {
		case string:
			data = []byte(v)
		case []byte:
			data = v
		default:
			return nil, fmt.Errorf("%w: unexpected session payload", ErrUnavailable)
		}

		sess, err := decodeSession(token, data)
		if err != nil {
			return nil, err
		}
		sess.IsActive = false
		return sess, nil
	default:
		return nil, fmt.Errorf("%w: unknown script status %d", ErrUnavailable, status)
	}
}

// SessionTokens returns the refresh tokens indexed for a user. Members may
// reference records that have already expired; callers resolving them must
// tolerate misses.
func (s *Store) SessionTokens(ctx context.Context, userID string) ([]string, error) {
	tokens, err := s.redis.SMembers(ctx, indexKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return tokens, nil
}

// GetSessions resolves multiple refresh tokens in one pipeline, silently
// skipping tokens whose record no longer exists.
func (s *Store) GetSessions(ctx context.Context, tokens []string) ([]*Session, error) {
	if len(tokens) == 0 {
		return []*Session{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(tokens))
	for i, token := range tokens {
		cmds[i] = pipe.Get(ctx, sessionKey(token))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sessions := make([]*Session, 0, len(tokens))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		sess, err := decodeSession(tokens[i], data)
		if err != nil {
			// A single corrupt record must not hide the rest.
			continue
		}
		sessions = append(sessions, sess)
	}

	return sessions, nil
}

// Ping reports Redis availability.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func decodeSession(token string, data []byte) (*Session, error) {
	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	sess.Token = token
	return sess, nil
}
