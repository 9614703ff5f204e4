package pipeline

import "testing"

func TestCanonicalizeLink(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "blog promotion landing is rewritten",
			in:   "https://section.blog.naver.com/Promotion?blogId=dosirak_esim&logNo=2212345678",
			want: "https://blog.naver.com/dosirak_esim/2212345678",
		},
		{
			name: "canonical blog post passes through",
			in:   "https://blog.naver.com/dosirak_esim/2212345678",
			want: "https://blog.naver.com/dosirak_esim/2212345678",
		},
		{
			name: "cafe landing with path ids is rewritten",
			in:   "https://cafe.naver.com/ca-fe/cafes/roamingfans/articles/9876",
			want: "https://cafe.naver.com/roamingfans/9876",
		},
		{
			name: "canonical cafe post passes through",
			in:   "https://cafe.naver.com/roamingfans/9876",
			want: "https://cafe.naver.com/roamingfans/9876",
		},
		{
			name: "cafe landing without ids stays untouched",
			in:   "https://cafe.naver.com/ca-fe/MyCafeIntro/roamingfans",
			want: "https://cafe.naver.com/ca-fe/MyCafeIntro/roamingfans",
		},
		{
			name: "unrelated link passes through",
			in:   "https://news.naver.com/main/read.nhn?oid=029&aid=1",
			want: "https://news.naver.com/main/read.nhn?oid=029&aid=1",
		},
		{
			name: "empty link passes through",
			in:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CanonicalizeLink(tc.in); got != tc.want {
				t.Fatalf("CanonicalizeLink(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
