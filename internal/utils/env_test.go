package utils

import "testing"

func TestGetEnvPrefersEnvironment(t *testing.T) {
	t.Setenv("STRIDE_TEST_ENV", "from-env")
	if got := GetEnv("STRIDE_TEST_ENV", "fallback", nil); got != "from-env" {
		t.Fatalf("GetEnv: want=%q got=%q", "from-env", got)
	}
}

func TestGetEnvFallsBackWhenUnset(t *testing.T) {
	if got := GetEnv("STRIDE_TEST_ENV_MISSING", "fallback", nil); got != "fallback" {
		t.Fatalf("GetEnv: want=%q got=%q", "fallback", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("STRIDE_TEST_INT", "42")
	if got := GetEnvAsInt("STRIDE_TEST_INT", 7, nil); got != 42 {
		t.Fatalf("GetEnvAsInt: want=42 got=%d", got)
	}

	t.Setenv("STRIDE_TEST_INT", "not-a-number")
	if got := GetEnvAsInt("STRIDE_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt garbage: want=7 got=%d", got)
	}

	if got := GetEnvAsInt("STRIDE_TEST_INT_MISSING", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt missing: want=7 got=%d", got)
	}
}
