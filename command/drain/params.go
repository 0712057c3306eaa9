package drain

import (
	"errors"
	"time"

	"github.com/dogechain-lab/elasticdb/command/helper"
	"github.com/dogechain-lab/elasticdb/elastic"
)

const (
	rangeFlag    = "range"
	outFlag      = "out"
	capacityFlag = "capacity"
	clearFlag    = "clear"
	timeoutFlag  = "timeout"
)

const (
	defaultCapacity = 4 * 1024 * 1024
)

var (
	params = &drainParams{}
)

var (
	errInvalidCapacity = errors.New("capacity must be greater than 0")
	errInvalidTimeout  = errors.New("timeout must not be negative")
)

type drainParams struct {
	helper.EngineParams

	rangeRaw string
	outPath  string
	capacity int
	clear    bool
	timeout  time.Duration
}

func (p *drainParams) validateFlags() error {
	if _, err := elastic.ParseHashRange([]string{p.rangeRaw}); err != nil {
		return err
	}

	if p.capacity <= 0 {
		return errInvalidCapacity
	}

	if p.timeout < 0 {
		return errInvalidTimeout
	}

	return nil
}

func (p *drainParams) getRequiredFlags() []string {
	return []string{
		rangeFlag,
		outFlag,
	}
}
