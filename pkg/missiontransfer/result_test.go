package missiontransfer

import "testing"

func TestResultString(t *testing.T) {
	cases := map[Result]string{
		ResultSuccess:                 "Success",
		ResultConnectionError:         "ConnectionError",
		ResultIntMessagesNotSupported: "IntMessagesNotSupported",
		Result(999):                   "Unknown",
	}
	for result, want := range cases {
		if got := result.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", result, got, want)
		}
	}
}

func TestResultFromAck(t *testing.T) {
	cases := []struct {
		status AckStatus
		want   Result
	}{
		{AckAccepted, ResultSuccess},
		{AckNoSpace, ResultTooManyMissionItems},
		{AckInvalidSequence, ResultInvalidSequence},
		{AckDenied, ResultDenied},
		{AckOperationCancelled, ResultCancelled},
		{AckMissionTypeNotConsistent, ResultMissionTypeNotConsistent},
		{AckInvalidParam4, ResultInvalidParam},
		{AckUnsupportedFrame, ResultUnsupportedFrame},
	}
	for _, c := range cases {
		if got := resultFromAck(c.status); got != c.want {
			t.Errorf("resultFromAck(%d) = %v, want %v", c.status, got, c.want)
		}
	}
}
