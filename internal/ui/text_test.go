package ui

import (
	"testing"

	tcell "github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestDrawText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		text string
		w, h int // defaults to 10
		give Pos
		want Pos
	}{
		{
			desc: "empty",
			give: Pos{1, 2},
			want: Pos{1, 2},
		},
		{
			desc: "single line",
			text: "hello",
			want: Pos{5, 0},
		},
		{
			desc: "offset",
			text: "hello",
			give: Pos{2, 3},
			want: Pos{7, 3},
		},
		{
			desc: "multi line",
			text: "hello\nworld",
			want: Pos{5, 1},
		},
		{
			desc: "multi line/end with newline",
			text: "hello\nworld\n",
			want: Pos{0, 2},
		},
		{
			desc: "clipped/x",
			w:    4,
			text: "hello",
			want: Pos{4, 0},
		},
		{
			desc: "clipped/x then newline",
			w:    4,
			text: "hello\nhi",
			want: Pos{2, 1},
		},
		{
			desc: "clipped/y",
			h:    2,
			text: "h\ne\nl\nl\no",
			want: Pos{0, 2},
		},
		{
			desc: "wide char",
			text: "世",
			want: Pos{2, 0},
		},
		{
			desc: "wide char at the edge",
			w:    3,
			text: "ab世",
			want: Pos{2, 0},
		},
		{
			desc: "zero width char",
			text: "a\x00b",
			want: Pos{2, 0},
		},
		{
			desc: "combining rune",
			text: string([]rune{0x1f3f3, 0xfe0f, 0x200d, 0x1f308}), // 🏳️‍🌈
			want: Pos{1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			w, h := 10, 10
			if tt.w > 0 {
				w = tt.w
			}
			if tt.h > 0 {
				h = tt.h
			}
			scr := NewTestScreen(t, w, h)

			got := DrawText(tt.text, tcell.StyleDefault, scr, tt.give)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrawTextClipsContent(t *testing.T) {
	t.Parallel()

	scr := NewTestScreen(t, 3, 2)
	DrawText("abcd\nxy", tcell.StyleDefault, scr, Pos{})
	scr.Show()

	cells, _, _ := scr.GetContents()
	var got []rune
	for _, c := range cells[:5] {
		if assert.NotEmpty(t, c.Runes) {
			got = append(got, c.Runes[0])
		}
	}
	assert.Equal(t, "abcxy", string(got))
}

func TestTextWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, TextWidth(""))
	assert.Equal(t, 5, TextWidth("hello"))
	assert.Equal(t, 4, TextWidth("世界"))
	assert.Equal(t, 3, TextWidth("1.0"))
}

func TestPosString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(0, 0)", Pos{}.String())
	assert.Equal(t, "(5, 6)", Pos{5, 6}.String())
}
