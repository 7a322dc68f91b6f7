package validator

import (
	"strings"
	"testing"

	"stayhub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	v := NewReviewValidator()

	tests := []struct {
		name    string
		req     model.ReviewRequest
		wantErr string
	}{
		{"valid", model.ReviewRequest{Rating: 5, Comment: "Lovely"}, ""},
		{"rating zero", model.ReviewRequest{Rating: 0, Comment: "x"}, MsgRatingRange},
		{"rating six", model.ReviewRequest{Rating: 6, Comment: "x"}, MsgRatingRange},
		{"rating wins over comment", model.ReviewRequest{Rating: 9, Comment: ""}, MsgRatingRange},
		{"blank comment", model.ReviewRequest{Rating: 3, Comment: " \n\t "}, MsgCommentRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Normalize(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestNormalize_SanitizesComment(t *testing.T) {
	v := NewReviewValidator()
	req := model.ReviewRequest{Rating: 4, Comment: "  Great\n\nview \x00 "}
	require.NoError(t, v.Normalize(&req))
	assert.Equal(t, "Great view", req.Comment)

	long := model.ReviewRequest{Rating: 4, Comment: strings.Repeat("a", 1500)}
	require.NoError(t, v.Normalize(&long), "long comments are truncated, not rejected")
	assert.Len(t, long.Comment, 1000)
}
