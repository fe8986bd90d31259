package gitsync

import (
	"fmt"

	mocks "github.com/cluster-deployment-automation/gocli/utils/mock"
)

func AddExpectCallsFreshClone(r *mocks.MockRunner, url, dir, release, branch, commit string) {
	r.EXPECT().Command(fmt.Sprintf("git clone %s %s", url, dir))
	AddExpectCallsReset(r, dir, release, branch, commit)
}

func AddExpectCallsExistingClone(r *mocks.MockRunner, dir, release, branch, commit string) {
	r.EXPECT().Command(fmt.Sprintf("git -C %s fetch origin", dir))
	AddExpectCallsReset(r, dir, release, branch, commit)
}

func AddExpectCallsReset(r *mocks.MockRunner, dir, release, branch, commit string) {
	r.EXPECT().Command(fmt.Sprintf("git -C %s checkout -B %s origin/%s", dir, release, branch))
	r.EXPECT().Command(fmt.Sprintf("git -C %s reset --hard", dir))
	r.EXPECT().Command(fmt.Sprintf("git -C %s clean -xfd", dir))
	r.EXPECT().CommandWithOutput(fmt.Sprintf("git -C %s rev-parse HEAD", dir)).Return(commit+"\n", nil)
}
