package scanner

import (
	"testing"

	"github.com/CosmoTheDev/artiscan/models"
)

const trivyFixture = `{"Results":[{"Vulnerabilities":[{"Severity":"HIGH","VulnerabilityID":"CVE-2023-1","PkgName":"libfoo","Title":"x","FixedVersion":"1.2"}]}]}`

const trivyMultiFixture = `{
  "SchemaVersion": 2,
  "ArtifactName": "insecure-app:latest",
  "Results": [
    {"Target": "debian 9", "Vulnerabilities": [
      {"VulnerabilityID": "CVE-2019-0001", "PkgName": "openssl", "Severity": "CRITICAL", "Title": "heap overflow"},
      {"VulnerabilityID": "CVE-2019-0002", "PkgName": "zlib", "Severity": "weird", "FixedVersion": "1.2.12"}
    ]},
    {"Target": "Python", "Class": "lang-pkgs"},
    {"Target": "requirements.txt", "Vulnerabilities": [
      {"VulnerabilityID": "GHSA-xxxx", "PkgName": "flask", "Severity": "MEDIUM", "Title": "open redirect"}
    ]}
  ]
}`

const dockleFixture = `{
  "summary": {"fatal": 1, "warn": 1, "info": 1, "skip": 0, "pass": 10},
  "details": [
    {"code": "CIS-DI-0001", "title": "Create a user for the container", "level": "WARN", "alerts": ["Last user should not be root"]},
    {"code": "DKL-DI-0005", "title": "Clear apt-get caches", "level": "FATAL", "alerts": ["Use 'rm -rf /var/lib/apt/lists' after 'apt-get install'", " ", "Second alert"]},
    {"code": "CIS-DI-0005", "title": "Enable Content trust for Docker", "level": "INFO", "alerts": []}
  ]
}`

const tfsecFixture = `{
  "results": [
    {"rule_id": "AVD-AWS-0086", "long_id": "aws-s3-block-public-acls", "severity": "HIGH",
     "resource": "aws_s3_bucket.data", "description": "No public access block so not blocking public acls",
     "links": ["https://aquasecurity.github.io/tfsec/latest/checks/aws/s3/block-public-acls/", "https://registry.terraform.io"]},
    {"long_id": "aws-ec2-no-public-ingress-sgr", "severity": "CRITICAL",
     "resource": "aws_security_group_rule.ssh", "description": "An ingress security group rule allows traffic from /0."}
  ]
}`

const checkovBareFixture = `{
  "check_type": "terraform",
  "results": {
    "passed_checks": [{"check_id": "CKV_AWS_20"}],
    "failed_checks": [
      {"check_id": "CKV_AWS_18", "check_name": "Ensure the S3 bucket has access logging enabled",
       "resource": "aws_s3_bucket.data", "severity": null, "guideline": "https://docs.bridgecrew.io/docs/s3_13-enable-logging"},
      {"check_id": "CKV_AWS_24", "check_name": "Ensure no security groups allow ingress from 0.0.0.0:0 to port 22",
       "resource": "aws_security_group.ssh", "severity": "HIGH", "guideline": "https://docs.bridgecrew.io/docs/networking_1-port-security"}
    ]
  },
  "summary": {"passed": 1, "failed": 2}
}`

func TestTrivyParseSpecFixture(t *testing.T) {
	findings, err := NewTrivyScanner("").Parse([]byte(trivyFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Severity != models.SeverityHigh || f.Identifier != "CVE-2023-1" || f.Subject != "libfoo" ||
		f.Title != "x" || f.Remediation != "1.2" || f.Tool != models.ToolTrivy {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestTrivyParseCountsEveryVulnerability(t *testing.T) {
	findings, err := NewTrivyScanner("").Parse([]byte(trivyMultiFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}
	if findings[1].Severity != models.SeverityUnknown {
		t.Fatalf("unrecognised severity should map to UNKNOWN, got %s", findings[1].Severity)
	}
	if findings[0].Remediation != models.NotAvailable {
		t.Fatalf("missing FixedVersion should be N/A, got %q", findings[0].Remediation)
	}
	if findings[1].Title != models.NotAvailable {
		t.Fatalf("missing Title should be N/A, got %q", findings[1].Title)
	}
}

func TestDockleParse(t *testing.T) {
	findings, err := NewDockleScanner("").Parse([]byte(dockleFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}
	if findings[1].Severity != models.SeverityCritical {
		t.Fatalf("FATAL should map to CRITICAL, got %s", findings[1].Severity)
	}
	if findings[1].Remediation != "Use 'rm -rf /var/lib/apt/lists' after 'apt-get install'; Second alert" {
		t.Fatalf("unexpected joined alerts: %q", findings[1].Remediation)
	}
	if findings[2].Remediation != models.NotAvailable {
		t.Fatalf("empty alerts should be N/A, got %q", findings[2].Remediation)
	}
	for _, f := range findings {
		if f.Subject != "Dockerfile" {
			t.Fatalf("dockle subject should be Dockerfile, got %q", f.Subject)
		}
	}
}

func TestTfsecParse(t *testing.T) {
	findings, err := NewTfsecScanner("").Parse([]byte(tfsecFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	first := findings[0]
	if first.Identifier != "AVD-AWS-0086" || first.Subject != "aws_s3_bucket.data" ||
		first.Remediation != "https://aquasecurity.github.io/tfsec/latest/checks/aws/s3/block-public-acls/" {
		t.Fatalf("unexpected first finding: %+v", first)
	}
	if findings[1].Identifier != "aws-ec2-no-public-ingress-sgr" {
		t.Fatalf("expected long_id fallback, got %q", findings[1].Identifier)
	}
	if findings[1].Remediation != models.NotAvailable {
		t.Fatalf("missing links should be N/A, got %q", findings[1].Remediation)
	}
}

func TestTfsecParseNullResults(t *testing.T) {
	findings, err := NewTfsecScanner("").Parse([]byte(`{"results": null}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %d", len(findings))
	}
}

func TestCheckovParseBareAndListAgree(t *testing.T) {
	c := NewCheckovScanner("")
	bare, err := c.Parse([]byte(checkovBareFixture))
	if err != nil {
		t.Fatalf("parse bare: %v", err)
	}
	wrapped, err := c.Parse([]byte("[" + checkovBareFixture + "]"))
	if err != nil {
		t.Fatalf("parse list: %v", err)
	}
	if len(bare) != 2 || len(wrapped) != 2 {
		t.Fatalf("expected 2 findings from both shapes, got %d and %d", len(bare), len(wrapped))
	}
	for i := range bare {
		if bare[i] != wrapped[i] {
			t.Fatalf("finding %d differs: %+v vs %+v", i, bare[i], wrapped[i])
		}
	}
	if bare[0].Severity != models.SeverityUnknown {
		t.Fatalf("null severity should default to UNKNOWN, got %s", bare[0].Severity)
	}
	if bare[0].Title != "Ensure the S3 bucket has access logging enabled" ||
		bare[0].Remediation != "https://docs.bridgecrew.io/docs/s3_13-enable-logging" ||
		bare[0].Identifier != "CKV_AWS_18" {
		t.Fatalf("unexpected checkov mapping: %+v", bare[0])
	}
}

func TestCheckovParseMultipleFrameworks(t *testing.T) {
	payload := "[" + checkovBareFixture + `,{"check_type":"secrets","results":{"failed_checks":[{"check_id":"CKV_SECRET_2","check_name":"AWS Access Key","resource":"main.tf","severity":"CRITICAL"}]}}]`
	findings, err := NewCheckovScanner("").Parse([]byte(payload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings across frameworks, got %d", len(findings))
	}
}

func TestCheckovParseSummaryOnly(t *testing.T) {
	findings, err := NewCheckovScanner("").Parse([]byte(`{"passed":0,"failed":0,"skipped":0,"parsing_errors":0,"resource_count":0}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %d", len(findings))
	}
}

func TestParseMissingTopLevelKeysYieldsNothing(t *testing.T) {
	for _, a := range []Adapter{NewTrivyScanner(""), NewDockleScanner(""), NewTfsecScanner(""), NewCheckovScanner("")} {
		findings, err := a.Parse([]byte(`{"unrelated": true}`))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", a.Name(), err)
		}
		if len(findings) != 0 {
			t.Fatalf("%s: expected no findings, got %d", a.Name(), len(findings))
		}
	}
}

func TestParseTruncatedJSONFails(t *testing.T) {
	for _, a := range []Adapter{NewTrivyScanner(""), NewDockleScanner(""), NewTfsecScanner(""), NewCheckovScanner("")} {
		if _, err := a.Parse([]byte(`{"Results": [{"Vulner`)); err == nil {
			t.Fatalf("%s: expected an error for truncated JSON", a.Name())
		}
	}
}

func TestParsedSeveritiesAreCanonical(t *testing.T) {
	cases := map[Adapter]string{
		NewTrivyScanner(""):   trivyMultiFixture,
		NewDockleScanner(""):  dockleFixture,
		NewTfsecScanner(""):   tfsecFixture,
		NewCheckovScanner(""): checkovBareFixture,
	}
	for a, fixture := range cases {
		findings, err := a.Parse([]byte(fixture))
		if err != nil {
			t.Fatalf("%s: parse: %v", a.Name(), err)
		}
		for _, f := range findings {
			if !f.Severity.Valid() {
				t.Fatalf("%s: non-canonical severity %q", a.Name(), f.Severity)
			}
			if f.Tool != a.Tool() {
				t.Fatalf("%s: finding tagged with %q", a.Name(), f.Tool)
			}
			if f.Identifier == "" || f.Subject == "" || f.Title == "" || f.Remediation == "" {
				t.Fatalf("%s: finding has empty field: %+v", a.Name(), f)
			}
		}
	}
}
