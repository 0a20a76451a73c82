package lnb

import "fmt"

// IssueKind categorizes a configuration problem
type IssueKind string

const (
	IssueMissingID      IssueKind = "missing-id"
	IssueDuplicateID    IssueKind = "duplicate-id"
	IssueDanglingParent IssueKind = "dangling-parent"
	IssueTooDeep        IssueKind = "too-deep"
	IssueTypeMismatch   IssueKind = "type-mismatch"
)

// Issue is a warning about a menu configuration.
// Issues never block rendering.
type Issue struct {
	NodeID  string    `json:"nodeId"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Kind, i.NodeID, i.Message)
}

// Validate checks that declared types agree with structure and that the
// tree is at most one level deep. Input may be flat or nested.
func Validate(nodes []Config) []Issue {
	var issues []Issue

	flat := Flatten(nodes)
	seen := make(map[string]bool, len(flat))
	for _, n := range flat {
		if n.ID == "" {
			issues = append(issues, Issue{Kind: IssueMissingID, Message: fmt.Sprintf("id가 없는 메뉴: %q", n.Label())})
			continue
		}
		if seen[n.ID] {
			issues = append(issues, Issue{NodeID: n.ID, Kind: IssueDuplicateID, Message: "중복된 id"})
		}
		seen[n.ID] = true
	}
	for _, n := range flat {
		if n.ParentID != "" && !seen[n.ParentID] {
			issues = append(issues, Issue{
				NodeID:  n.ID,
				Kind:    IssueDanglingParent,
				Message: fmt.Sprintf("상위 메뉴 '%s'을(를) 찾을 수 없습니다", n.ParentID),
			})
		}
	}

	for _, top := range Nest(flat) {
		kind := Classify(top)
		switch {
		case top.Type == TypeChild:
			issues = append(issues, mismatch(top, "최상위 메뉴가 child로 선언됨"))
		case top.Type == TypeParent && kind != KindParent:
			issues = append(issues, mismatch(top, "parent로 선언됐지만 활성 하위 메뉴가 없음"))
		case top.Type == TypeIndependent && kind == KindParent:
			issues = append(issues, mismatch(top, "independent로 선언됐지만 활성 하위 메뉴가 있음"))
		}

		for _, c := range top.Children {
			if c.Type != "" && c.Type != TypeChild {
				issues = append(issues, mismatch(c, fmt.Sprintf("하위 메뉴가 %s로 선언됨", c.Type)))
			}
			for _, gc := range c.Children {
				issues = append(issues, Issue{
					NodeID:  gc.ID,
					Kind:    IssueTooDeep,
					Message: fmt.Sprintf("2단계를 넘는 메뉴는 표시되지 않습니다 (상위: %s)", c.ID),
				})
			}
		}
	}

	return issues
}

func mismatch(n Config, msg string) Issue {
	return Issue{NodeID: n.ID, Kind: IssueTypeMismatch, Message: msg}
}
