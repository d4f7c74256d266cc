package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixed-format/descriptor"
)

func TestLogicalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BankCode", "bankCode"},
		{"MTI", "MTI"},
		{"URL", "URL"},
		{"X", "x"},
		{"accountNumber", "accountNumber"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LogicalName(tt.in))
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		check   func(t *testing.T, info Tag)
		wantErr bool
	}{
		{
			name: "empty",
			tag:  "",
			check: func(t *testing.T, info Tag) {
				assert.Empty(t, info.Name)
				assert.True(t, info.Override.IsZero())
			},
		},
		{
			name: "skip",
			tag:  "-",
			check: func(t *testing.T, info Tag) {
				assert.True(t, info.Skip)
			},
		},
		{
			name: "full",
			tag:  "amount,width=12,scale=2,class=numeric,placeholder=?,readonly",
			check: func(t *testing.T, info Tag) {
				assert.Equal(t, "amount", info.Name)
				d := descriptor.Descriptor{}.With(info.Override)
				assert.Equal(t, 12, d.Width)
				assert.Equal(t, 2, d.Scale)
				assert.Equal(t, descriptor.ClassNumeric, d.Class)
				assert.Equal(t, "?", d.Placeholder)
				assert.True(t, d.ReadOnly)
			},
		},
		{
			name: "quoted value with comma",
			tag:  ",format='T,F',width=1",
			check: func(t *testing.T, info Tag) {
				require.NotNil(t, info.Override.Format)
				assert.Equal(t, "T,F", *info.Override.Format)
				assert.Equal(t, 1, *info.Override.Width)
			},
		},
		{
			name: "container and value",
			tag:  "bban,container,value",
			check: func(t *testing.T, info Tag) {
				assert.True(t, info.Container)
				assert.True(t, info.Value)
			},
		},
		{
			name: "readonly false",
			tag:  ",readonly=false",
			check: func(t *testing.T, info Tag) {
				require.NotNil(t, info.Override.ReadOnly)
				assert.False(t, *info.Override.ReadOnly)
			},
		},
		{name: "bad width", tag: ",width=x", wantErr: true},
		{name: "bad class", tag: ",class=octal", wantErr: true},
		{name: "unknown option", tag: ",size=3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseTag(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, info)
		})
	}
}
