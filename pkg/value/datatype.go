// Package value implements BoxedValue, the engine's typed nullable scalar,
// and the closed DataType enum it is tagged with.
package value

import "fmt"

// DataType is the closed set of scalar types a column may declare.
type DataType int

const (
	Integer DataType = iota
	Text
	Boolean
	Float
	Double
	Char
	Date
	Time
	DateTime
)

var typeNames = map[DataType]string{
	Integer:  "INTEGER",
	Text:     "TEXT",
	Boolean:  "BOOLEAN",
	Float:    "FLOAT",
	Double:   "DOUBLE",
	Char:     "CHAR",
	Date:     "DATE",
	Time:     "TIME",
	DateTime: "DATETIME",
}

func (d DataType) String() string {
	if name, ok := typeNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseDataType resolves a DDL type literal (e.g. the IDENTIFIER token
// following a column name) into a DataType.
func ParseDataType(literal string) (DataType, error) {
	for dt, name := range typeNames {
		if name == literal {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type: %s", literal)
}
