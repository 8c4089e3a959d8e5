package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/lobo/internal/catalog"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/pkg/failure"
)

/*
Responsibilities
- Turn one raw sensor response into a MeasurementRecord
- Recognize the timestamp line
- Attribute measurement lines to catalog entries
- Convert values to their declared types

Line Rules
- Lines are whitespace-trimmed before any test
- A line starting with <p> and holding a colon is a timestamp line;
  the last one wins
- Any other line is matched against measurement names in catalog order;
  the first name followed by ": " that starts the line wins
- The value sits inside the first <b>...</b>, after the first colon;
  later colons belong to the value
- Float values must be plain decimal numbers

Parsing is pure: the same text and catalog always give the same record.
*/

const (
	paragraphOpen  = "<p>"
	paragraphClose = "</p>"
	boldOpen       = "<b>"
	boldClose      = "</b>"
	labelSeparator = ": "
)

var timestampMarkup = strings.NewReplacer(paragraphOpen, "", paragraphClose, "")

// decimalNumber is plain decimal notation with an optional exponent.
// strconv alone would also take hex floats, digit underscores and Inf.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

type TextParser struct {
	metadataSink metadata.MetadataSink
}

func NewTextParser(
	metadataSink metadata.MetadataSink,
) TextParser {
	return TextParser{
		metadataSink: metadataSink,
	}
}

// Parse is the package-level Parse with its outcome reported to the
// metadata sink.
func (p *TextParser) Parse(
	sensorKey string,
	rawText string,
	measurements []catalog.Measurement,
) (MeasurementRecord, failure.ClassifiedError) {
	startTime := time.Now()

	record, err := Parse(sensorKey, rawText, measurements)
	if err != nil {
		var parseErr *ParseError
		errors.As(err, &parseErr)
		p.metadataSink.RecordError(
			time.Now(),
			"parser",
			"TextParser.Parse",
			mapParseErrorToMetadataCause(parseErr),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrSensor, parseErr.Sensor),
				metadata.NewAttr(metadata.AttrMeasurement, parseErr.Measurement),
				metadata.NewAttr(metadata.AttrValue, parseErr.Value),
			},
		)
		return MeasurementRecord{}, parseErr
	}

	p.metadataSink.RecordParse(sensorKey, len(record.Data), time.Since(startTime))
	return record, nil
}

type lineMatch struct {
	line        string
	measurement catalog.Measurement
}

// Parse converts rawText into a record for sensorKey. measurements must be
// in catalog order. Empty text yields an empty record, not an error.
func Parse(sensorKey string, rawText string, measurements []catalog.Measurement) (MeasurementRecord, error) {
	var dateTime *string
	var matches []lineMatch

	for _, rawLine := range strings.Split(rawText, "\n") {
		line := strings.TrimSpace(rawLine)

		if isTimestampLine(line) {
			timestamp := extractTimestamp(line)
			dateTime = &timestamp
			continue
		}

		if m, ok := matchMeasurement(line, measurements); ok {
			matches = append(matches, lineMatch{line: line, measurement: m})
		}
	}

	data := make(Readings, 0, len(matches))
	for _, match := range matches {
		reading, err := readValue(match.line, match.measurement)
		if err != nil {
			err.Sensor = sensorKey
			return MeasurementRecord{}, err
		}
		data = data.set(reading)
	}

	return MeasurementRecord{
		Sensor:   sensorKey,
		DateTime: dateTime,
		Data:     data,
	}, nil
}

func isTimestampLine(line string) bool {
	return strings.HasPrefix(line, paragraphOpen) && strings.Index(line, ":") > 0
}

// extractTimestamp strips whatever paragraph markup is present; unbalanced
// tags are tolerated.
func extractTimestamp(line string) string {
	return strings.TrimSpace(timestampMarkup.Replace(line))
}

func matchMeasurement(line string, measurements []catalog.Measurement) (catalog.Measurement, bool) {
	for _, m := range measurements {
		if strings.HasPrefix(line, m.Name+labelSeparator) {
			return m, true
		}
	}
	return catalog.Measurement{}, false
}

func readValue(line string, m catalog.Measurement) (Reading, *ParseError) {
	raw := extractValue(line)

	if m.Type != catalog.TypeFloat {
		return Reading{Key: m.Key, Type: m.Type, Text: raw}, nil
	}

	if !decimalNumber.MatchString(raw) {
		return Reading{}, &ParseError{
			Message:     fmt.Sprintf("measurement %s: %q is not a decimal number", m.Key, raw),
			Cause:       ErrCauseNotANumber,
			Measurement: m.Key,
			Value:       raw,
		}
	}

	number, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		message := "value is not a finite number"
		if err != nil {
			message = err.Error()
		}
		return Reading{}, &ParseError{
			Message:     fmt.Sprintf("measurement %s: %s", m.Key, message),
			Cause:       ErrCauseNotANumber,
			Measurement: m.Key,
			Value:       raw,
		}
	}
	return Reading{Key: m.Key, Type: m.Type, Number: number}, nil
}

// extractValue drops the first <b>, cuts at the first </b> and keeps what
// follows the first colon.
func extractValue(line string) string {
	value := strings.Replace(line, boldOpen, "", 1)
	if i := strings.Index(value, boldClose); i >= 0 {
		value = value[:i]
	}
	if i := strings.Index(value, ":"); i >= 0 {
		value = value[i+1:]
	} else {
		value = ""
	}
	return strings.TrimSpace(value)
}
