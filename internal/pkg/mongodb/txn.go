package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// InTransaction runs fn inside a multi-document transaction. All reads and
// writes issued through the context passed to fn commit or abort as one
// visible unit. Approval of a registration request and the promotion of the
// linked user must never be observable half-applied, so every such pair of
// writes goes through here.
//
// Requires the deployment to be a replica set (standalone mongod does not
// support transactions).
func (c *Client) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
