package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/Khushitha-V/altarmaker/core"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type s3Store struct {
	s3Client *s3.Client
	bucket   string
}

// objectSession is the S3 object body for a session.
type objectSession struct {
	core.Session
	UserID string `json:"user_id"`
}

type objectDraft struct {
	core.Draft
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStore creates a new S3-based store.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	return &s3Store{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucketName,
	}
}

func sessionKey(userID, id string) string {
	return path.Join("sessions", userID, id+".json")
}

func draftKey(userID string) string {
	return path.Join("drafts", userID+".json")
}

func (s *s3Store) getObject(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func isNoSuchKey(err error) bool {
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *s3types.NotFound
	return errors.As(err, &notFound)
}

func (s *s3Store) List(ctx context.Context, userID string) ([]*core.Session, error) {
	prefix := path.Join("sessions", userID) + "/"
	sessions := []*core.Session{}

	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		for _, obj := range page.Contents {
			data, err := s.getObject(ctx, *obj.Key)
			if err != nil {
				logrus.WithError(err).Warnf("Failed to read session object %s, skipping", *obj.Key)
				continue
			}
			var stored objectSession
			if err := json.Unmarshal(data, &stored); err != nil {
				logrus.WithError(err).Warnf("Failed to unmarshal session object %s, skipping", *obj.Key)
				continue
			}
			sess := stored.Session
			sess.UserID = userID
			sess.Walls = nil
			sessions = append(sessions, &sess)
		}
	}
	return sessions, nil
}

func (s *s3Store) Get(ctx context.Context, userID, id string) (*core.Session, error) {
	data, err := s.getObject(ctx, sessionKey(userID, id))
	if err != nil {
		if isNoSuchKey(err) {
			return nil, core.NewNotFound(id)
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	var stored objectSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupt session object for %s: %w", id, err)
	}
	sess := stored.Session
	sess.UserID = userID
	return &sess, nil
}

func (s *s3Store) Create(ctx context.Context, session *core.Session) (string, error) {
	id := ulid.Make().String()
	now := time.Now()

	session.ID = id
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := s.put(ctx, session); err != nil {
		return "", err
	}
	return id, nil
}

func (s *s3Store) Update(ctx context.Context, session *core.Session) error {
	existing, err := s.Get(ctx, session.UserID, session.ID)
	if err != nil {
		return err
	}
	session.CreatedAt = existing.CreatedAt
	session.UpdatedAt = time.Now()
	return s.put(ctx, session)
}

func (s *s3Store) put(ctx context.Context, session *core.Session) error {
	data, err := json.Marshal(objectSession{Session: *session, UserID: session.UserID})
	if err != nil {
		return err
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(sessionKey(session.UserID, session.ID)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload session: %w", err)
	}
	return nil
}

func (s *s3Store) Delete(ctx context.Context, userID, id string) error {
	// A delete of an absent key succeeds in S3, so check first to keep
	// not-found semantics consistent with the other backends.
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(sessionKey(userID, id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (s *s3Store) GetDraft(ctx context.Context, userID string) (*core.Draft, error) {
	data, err := s.getObject(ctx, draftKey(userID))
	if err != nil {
		if isNoSuchKey(err) {
			return nil, &core.NotFoundError{Message: "no draft saved"}
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var stored objectDraft
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("corrupt draft object for user %s: %w", userID, err)
	}
	draft := stored.Draft
	draft.UserID = userID
	draft.UpdatedAt = stored.UpdatedAt
	return &draft, nil
}

func (s *s3Store) SaveDraft(ctx context.Context, draft *core.Draft) error {
	data, err := json.Marshal(objectDraft{Draft: *draft, UpdatedAt: time.Now()})
	if err != nil {
		return err
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(draftKey(draft.UserID)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload draft: %w", err)
	}
	return nil
}
