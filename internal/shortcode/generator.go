package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/bwmarrin/snowflake"
	"github.com/teris-io/shortid"

	"github.com/Adelodunpeter25/url-shortener/config"
)

const (
	StrategyRandom    = "random"
	StrategyShortID   = "shortid"
	StrategySnowflake = "snowflake"
)

// Generator allocates short codes. The strategy is configuration policy:
// "random" draws fixed-length codes from the alphabet and relies on the
// store's unique constraint plus retry, "shortid" delegates to teris-io
// shortid, "snowflake" base62-encodes a snowflake ID and cannot collide.
type Generator struct {
	strategy string
	length   int
	node     *snowflake.Node
}

func New(cfg config.CodeConfig) (*Generator, error) {
	g := &Generator{
		strategy: cfg.Strategy,
		length:   cfg.Length,
	}
	if g.length <= 0 {
		g.length = 6
	}
	switch cfg.Strategy {
	case StrategyRandom, StrategyShortID:
	case StrategySnowflake:
		node, err := snowflake.NewNode(cfg.NodeID)
		if err != nil {
			return nil, err
		}
		g.node = node
	default:
		return nil, fmt.Errorf("unknown code strategy %q", cfg.Strategy)
	}
	return g, nil
}

// Next returns a freshly drawn code. Uniqueness is only guaranteed for the
// snowflake strategy; the others depend on the caller retrying on conflict.
func (g *Generator) Next() (string, error) {
	switch g.strategy {
	case StrategyShortID:
		return shortid.Generate()
	case StrategySnowflake:
		return Encode(uint64(g.node.Generate().Int64())), nil
	default:
		return randomCode(g.length)
	}
}

// Deterministic reports whether Next alone produces unique codes.
func (g *Generator) Deterministic() bool {
	return g.strategy == StrategySnowflake
}

func randomCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = Alphabet[n.Int64()]
	}
	return string(code), nil
}
