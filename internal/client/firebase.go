package client

import (
	"context"
	"encoding/base64"

	firebase "firebase.google.com/go"
	"github.com/go-faster/errors"
	"google.golang.org/api/option"
)

// Credentials turns the base64 service account from the environment into a
// client option. An empty value means application default credentials.
func Credentials(saBase64 string) ([]option.ClientOption, error) {
	if saBase64 == "" {
		return nil, nil
	}

	saJSON, err := base64.StdEncoding.DecodeString(saBase64)
	if err != nil {
		return nil, errors.Wrap(err, "decode service account")
	}
	return []option.ClientOption{option.WithCredentialsJSON(saJSON)}, nil
}

func Firebase(ctx context.Context, projectID, bucket string, opts ...option.ClientOption) (*firebase.App, error) {
	conf := &firebase.Config{ProjectID: projectID, StorageBucket: bucket}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "firebase app")
	}
	return app, nil
}
