package geospatial

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Doer sends a raw command. *redis.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, args ...any) *redis.Cmd
}

// Client issues Tile38 commands over a connection in JSON output mode.
type Client struct {
	doer Doer
}

func NewClient(doer Doer) *Client {
	return &Client{doer: doer}
}

// Dial opens a go-redis client configured for Tile38. Tile38 only speaks
// RESP2 and has no CLIENT SETINFO, and each new connection is switched to
// JSON output.
func Dial(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            addr,
		Protocol:        2,
		DisableIdentity: true,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			return cn.Process(ctx, redis.NewCmd(ctx, "OUTPUT", "json"))
		},
	})
}

// Object is one entry of a list reply.
type Object struct {
	ID     string          `json:"id"`
	Object json.RawMessage `json:"object"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

// ObjectReply is the reply to GET.
type ObjectReply struct {
	Object json.RawMessage `json:"object"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

// ObjectsReply is the reply to WITHIN, NEARBY and SCAN.
type ObjectsReply struct {
	Objects []Object `json:"objects"`
	Count   int      `json:"count"`
	Cursor  int      `json:"cursor"`
}

type status struct {
	OK  bool   `json:"ok"`
	Err string `json:"err"`
}

// Do sends args and decodes a successful reply into out, which may be nil.
func (c *Client) Do(ctx context.Context, out any, args ...any) error {
	reply, err := c.doer.Do(ctx, args...).Text()
	if err != nil {
		return fmt.Errorf("%v: %w", args[0], err)
	}

	var st status
	if err := json.Unmarshal([]byte(reply), &st); err != nil {
		return fmt.Errorf("%v: unexpected reply %q: %w", args[0], reply, err)
	}
	if !st.OK {
		if st.Err == "" {
			st.Err = "request failed"
		}
		return fmt.Errorf("%v: %w", args[0], errors.New(st.Err))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(reply), out)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Do(ctx, nil, "PING")
}

func (c *Client) Get(ctx context.Context, key, id string) (ObjectReply, error) {
	var out ObjectReply
	err := c.Do(ctx, &out, Get(key, id, true)...)
	return out, err
}

// Objects runs a list command such as WITHIN, NEARBY or SCAN.
func (c *Client) Objects(ctx context.Context, args ...any) (ObjectsReply, error) {
	var out ObjectsReply
	err := c.Do(ctx, &out, args...)
	return out, err
}
