package scaffold

import (
	"fmt"
	"strings"
)

const gitattributes = `# Auto detect text files and perform LF normalization
* text=auto

# Shell scripts should always use LF
*.sh text eol=lf
*.bash text eol=lf

# Windows scripts should use CRLF
*.bat text eol=crlf
*.cmd text eol=crlf
*.ps1 text eol=crlf

# Binary files
*.jar binary
*.war binary
*.ear binary
*.zip binary
*.tar.gz binary
*.tgz binary

# Images
*.png binary
*.jpg binary
*.jpeg binary
*.gif binary
*.ico binary
*.svg text

# Fonts
*.woff binary
*.woff2 binary
*.eot binary
*.ttf binary
*.otf binary

# Documents
*.pdf binary
*.doc binary
*.docx binary
`

// gitignoreBlock is appended to .gitignore on every run
const gitignoreBlock = `

# Bulk Operations
.github/bulk-ops/logs/*.log
.github/bulk-ops/temp/*
!.github/bulk-ops/temp/.gitkeep

# OS generated files
.DS_Store
.DS_Store?
._*
.Spotlight-V100
.Trashes
ehthumbs.db
Thumbs.db

# IDE files
.vscode/
.idea/
*.swp
*.swo
*~

# Temporary files
*.tmp
*.temp
*.cache

# Log files
*.log
logs/

# Security files
*.key
*.pem
*.p12
*.jks
.env
.env.local
.env.*.local
`

const codeownersTemplate = `# Global owners
* {{owner}}

# Docker files
Dockerfile* {{owner}}
docker-compose*.yml {{owner}}
.dockerignore {{owner}}

# GitHub workflows
.github/ {{owner}}

# Security files
*.key {{owner}}
*.pem {{owner}}
.env* {{owner}}
`

// Gitattributes returns the .gitattributes document
func Gitattributes() string {
	return gitattributes
}

// GitignoreBlock returns the block appended to .gitignore
func GitignoreBlock() string {
	return gitignoreBlock
}

// Codeowners returns the CODEOWNERS document assigning everything to owner.
// A bare name gets an "@" prefix.
func Codeowners(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" || strings.ContainsAny(owner, " \t\n") {
		return "", fmt.Errorf("invalid CODEOWNERS owner %q", owner)
	}
	if !strings.HasPrefix(owner, "@") && !strings.Contains(owner, "@") {
		owner = "@" + owner
	}
	return strings.ReplaceAll(codeownersTemplate, "{{owner}}", owner), nil
}
