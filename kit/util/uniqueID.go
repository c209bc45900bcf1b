package util

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

// UniqueIDGenerate hands out 64-bit time-ordered ids. Ids from one node are
// unique and increasing, and node numbers keep processes apart.
type UniqueIDGenerate struct {
	snowflakeNode *snowflake.Node
}

func CreateUniqueIDGenerate(node int64) (*UniqueIDGenerate, error) {
	snowflakeNode, err := snowflake.NewNode(node)
	if err != nil {
		return nil, errors.Wrap(err, "create snowflake failed")
	}
	return &UniqueIDGenerate{
		snowflakeNode: snowflakeNode,
	}, nil
}

func (u *UniqueIDGenerate) Generate() *UniqueID {
	return &UniqueID{
		snowflakeID: u.snowflakeNode.Generate(),
	}
}

func (u *UniqueIDGenerate) NextID() int64 {
	return u.Generate().GetInt64()
}

type UniqueID struct {
	snowflakeID snowflake.ID
}

func (u UniqueID) GetInt64() int64 {
	return u.snowflakeID.Int64()
}

func (u UniqueID) GetBase62() string {
	return string(base62Encoding.FormatInt(u.snowflakeID.Int64()))
}
