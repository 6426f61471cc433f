package options_test

import (
	"reflect"
	"testing"

	"github.com/h5s3/h5s3/internal/options"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   []string
		want options.Options
	}{
		{
			[]string{"foo=bar", "bar=baz ", "k="},
			options.Options{"foo": "bar", "bar": "baz", "k": ""},
		},
		{
			[]string{"Foo=23", "baR", "k=thing with spaces"},
			options.Options{"foo": "23", "bar": "", "k": "thing with spaces"},
		},
		{
			[]string{"k2=more spaces = not evil"},
			options.Options{"k2": "more spaces = not evil"},
		},
	} {
		got, err := options.Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%v) error: %v", tc.in, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Parse(%v) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range [][]string{
		{"=bar"},
		{"x=1", "foo=bar", "foo=baz"},
	} {
		if _, err := options.Parse(in); err == nil {
			t.Fatalf("Parse(%v): expected error, got nil", in)
		}
	}
}

func TestGetDefault(t *testing.T) {
	opts := options.Options{"region": ""}
	if got := opts.GetDefault("region", "us-east-1"); got != "us-east-1" {
		t.Fatalf("GetDefault = %q, want us-east-1", got)
	}
	opts["region"] = "eu-west-1"
	if got := opts.GetDefault("region", "us-east-1"); got != "eu-west-1" {
		t.Fatalf("GetDefault = %q, want eu-west-1", got)
	}
}
