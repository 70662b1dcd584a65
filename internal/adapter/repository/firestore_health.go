package repository

import (
	"context"

	"cloud.google.com/go/firestore"
)

// PingFirestore issues a single-document read to confirm the database answers.
func PingFirestore(client *firestore.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := client.Collection("scam_stats").Limit(1).Documents(ctx).GetAll()
		return err
	}
}
