package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Path    bool
	Codec   bool
	Expr    bool
	Convert bool
	Match   bool
	Confirm bool
	Catalog bool
}

var d *debug

func init() {
	d = &debug{}
	d.Path = boolEnv("TAD_DEBUG_PATH")
	d.Codec = boolEnv("TAD_DEBUG_CODEC")
	d.Expr = boolEnv("TAD_DEBUG_EXPR")
	d.Convert = boolEnv("TAD_DEBUG_CONVERT")
	d.Match = boolEnv("TAD_DEBUG_MATCH")
	d.Confirm = boolEnv("TAD_DEBUG_CONFIRM")
	d.Catalog = boolEnv("TAD_DEBUG_CATALOG")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Path() bool {
	return d.Path
}
func Codec() bool {
	return d.Codec
}
func Expr() bool {
	return d.Expr
}
func Convert() bool {
	return d.Convert
}
func Match() bool {
	return d.Match
}
func Confirm() bool {
	return d.Confirm
}
func Catalog() bool {
	return d.Catalog
}

// Logf writes a debug trace line to stderr. Callers guard it with the
// flag of their concern.
func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
