package infra_redis_attempts

import (
	"time"

	"github.com/go-redis/redis"
)

// The window starts at the first hit and is never extended by later ones.
var hitScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// Driver counts hits per key in fixed windows.
type Driver struct {
	client *redis.Client
	key    string
	window time.Duration
}

func New(
	client *redis.Client,
	key string,
	window time.Duration,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
		window: window,
	}
}

// Hit increments the counter for key and returns its value within the current window.
func (d *Driver) Hit(key string) (int64, error) {
	fullKey := d.getFullKey(key)

	n, err := hitScript.Run(d.client, []string{fullKey}, d.window.Milliseconds()).Int64()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (d *Driver) getFullKey(key string) string {
	if d.key != "" {
		return d.key + ":" + key
	}
	return key
}
