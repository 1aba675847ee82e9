package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewUserID generates the opaque id assigned to a user row at creation.
// KSUIDs are time-sortable and safe to mint without coordination.
func NewUserID() string {
	return ksuid.New().String()
}

// NewRequestID generates a snowflake id string for request correlation,
// using a node id from the environment variable SNOWFLAKE_NODE. A missing
// or unparsable value falls back to node 1.
func NewRequestID() string {
	nodeEnv := os.Getenv("SNOWFLAKE_NODE")
	if nodeEnv == "" {
		return NewRequestIDWithNode(1)
	}
	nodeID, err := strconv.ParseInt(nodeEnv, 10, 64)
	if err != nil {
		return NewRequestIDWithNode(1)
	}
	return NewRequestIDWithNode(nodeID)
}

// NewRequestIDWithNode generates a snowflake id string using the provided
// node id. If the node cannot be initialized, it falls back to a KSUID so
// a unique id is still returned.
func NewRequestIDWithNode(nodeID int64) string {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return ksuid.New().String()
	}
	return node.Generate().String()
}
