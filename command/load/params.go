package load

import (
	"errors"

	"github.com/dogechain-lab/elasticdb/command/helper"
)

const (
	rowsFlag      = "rows"
	startFlag     = "start"
	valueSizeFlag = "value-size"
	columnsFlag   = "columns"
	prefixFlag    = "prefix"
	jitterFlag    = "jitter"
)

var (
	params = &loadParams{}
)

var (
	errInvalidRows      = errors.New("rows must be greater than 0")
	errInvalidValueSize = errors.New("value size must not be negative")
	errInvalidColumns   = errors.New("columns must be greater than 0")
)

type loadParams struct {
	helper.EngineParams

	rows      int
	start     int
	valueSize int
	columns   int
	prefix    string
	jitter    bool
}

func (p *loadParams) validateFlags() error {
	if p.rows <= 0 {
		return errInvalidRows
	}

	if p.valueSize < 0 {
		return errInvalidValueSize
	}

	if p.columns <= 0 {
		return errInvalidColumns
	}

	return nil
}

func (p *loadParams) getRequiredFlags() []string {
	return []string{
		rowsFlag,
	}
}
