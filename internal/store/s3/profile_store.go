package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/naviai/smsgate/internal/domain"
)

// ProfileStore implements domain.ProfileAdminStore on an S3 bucket with one
// JSON object per user.
type ProfileStore struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	keyPrefix string
}

// NewProfileStore creates a ProfileStore reading and writing profile
// objects under the given key prefix in the client's bucket.
func NewProfileStore(c *Client, keyPrefix string) *ProfileStore {
	return &ProfileStore{
		client:    c.S3(),
		uploader:  manager.NewUploader(c.S3()),
		bucket:    c.Bucket(),
		keyPrefix: keyPrefix,
	}
}

// Get retrieves and decodes the profile for userID. Returns an error
// wrapping domain.ErrNotFound when no object exists for the user.
func (s *ProfileStore) Get(ctx context.Context, userID string) (domain.Profile, error) {
	key := s.key(userID)

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return domain.Profile{}, fmt.Errorf("s3store: get %s: %w", key, domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("s3store: get %s: %w", key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("s3store: read %s: %w", key, err)
	}

	profile, err := decodeProfile(data)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("s3store: decode %s: %w", key, err)
	}
	return profile, nil
}

// Put encodes and uploads the profile for userID, replacing any existing
// object. The upload manager splits large payloads transparently; profile
// objects are tiny, so in practice this is a single request.
func (s *ProfileStore) Put(ctx context.Context, userID string, p domain.Profile) error {
	key := s.key(userID)

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("s3store: encode %s: %w", key, err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3store: put %s: %w", key, err)
	}
	return nil
}

// List returns the user IDs of all stored profiles. Pagination is handled
// transparently. Keys that do not look like profile objects are skipped.
func (s *ProfileStore) List(ctx context.Context) ([]string, error) {
	var ids []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keyPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3store: list prefix %s: %w", s.keyPrefix, err)
		}

		for _, obj := range page.Contents {
			if id, ok := s.userIDFromKey(aws.ToString(obj.Key)); ok {
				ids = append(ids, id)
			}
		}
	}

	return ids, nil
}

// key builds the object key for a user's profile.
func (s *ProfileStore) key(userID string) string {
	return s.keyPrefix + userID + ".json"
}

// userIDFromKey is the inverse of key. The second return value is false
// when the key does not match the profile naming scheme.
func (s *ProfileStore) userIDFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, s.keyPrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, ".json")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// decodeProfile parses a stored profile object. Unknown fields are
// tolerated; the allowed_ips and phone_numbers shapes must match.
func decodeProfile(data []byte) (domain.Profile, error) {
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// isNotFound returns true when the error indicates the requested S3 object
// does not exist. It checks the SDK typed errors (NoSuchKey, NotFound) and
// falls back to the generic 404 response for S3-compatible providers.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	type httpResponseError interface {
		HTTPStatusCode() int
	}
	var httpErr httpResponseError
	if errors.As(err, &httpErr) && httpErr.HTTPStatusCode() == 404 {
		return true
	}

	return false
}
