package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
)

// StoredObject is the result of an upload: the public URL handed to
// clients plus the name the provider stored the object under.
type StoredObject struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ObjectStore persists uploaded files (session materials, homework
// attachments, submissions) and returns their public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, ownerID, folder, filename string, data []byte) (*StoredObject, error)
}

// CasdoorConfig holds the storage-relevant part of the Casdoor connection.
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// CasdoorObjectStore uploads through the Casdoor resource API into the
// provider-configured bucket.
type CasdoorObjectStore struct {
	client *casdoorsdk.Client
	bucket string
}

func NewCasdoorObjectStore(config CasdoorConfig, bucket string) *CasdoorObjectStore {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &CasdoorObjectStore{
		client: client,
		bucket: bucket,
	}
}

func (s *CasdoorObjectStore) Upload(ctx context.Context, ownerID, folder, filename string, data []byte) (*StoredObject, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file %q", filename)
	}

	// Prefix with a random id so two uploads of the same filename never
	// overwrite each other.
	objectName := uuid.NewString() + "-" + sanitizeFilename(filename)
	fullPath := path.Join(s.bucket, folder, objectName)

	fileURL, name, err := s.client.UploadResource(ownerID, folder, "", fullPath, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %q: %w", filename, err)
	}

	return &StoredObject{URL: fileURL, Name: name}, nil
}

func sanitizeFilename(filename string) string {
	base := path.Base(filename)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
