package querycache

// Key constructors for every resource the data layer caches. These are
// the only place keys are built, so the hierarchy is fixed here:
// invalidating ConversationsKey() reaches every list, page and detail
// entry below it; invalidating CompanyKey(id) reaches every subresource
// of that company.

// ConversationsKey is the root of the conversation hierarchy.
func ConversationsKey() Key {
	return Key{"conversations"}
}

// ConversationListKey identifies one filtered conversation listing.
func ConversationListKey(filter Filter) Key {
	return Key{"conversations", "list", filter.Encode()}
}

// ConversationPagesKey identifies the incrementally-loaded variant of a
// filtered listing. It deliberately does not alias ConversationListKey:
// the two share the ["conversations" "list"] prefix for invalidation
// but never each other's entries.
func ConversationPagesKey(filter Filter) Key {
	return Key{"conversations", "list", "pages", filter.Encode()}
}

// ConversationKey identifies one conversation's detail entry.
func ConversationKey(conversationID string) Key {
	return Key{"conversations", "detail", conversationID}
}

// CompaniesKey is the root of the company hierarchy.
func CompaniesKey() Key {
	return Key{"companies"}
}

// CompanyKey identifies one company and prefixes all its subresources.
func CompanyKey(companyID string) Key {
	return Key{"company", companyID}
}

func CompanyDepartmentsKey(companyID string) Key {
	return append(CompanyKey(companyID), "departments")
}

func CompanyRolesKey(companyID, departmentID string) Key {
	return append(CompanyDepartmentsKey(companyID), departmentID, "roles")
}

func CompanyPlaybooksKey(companyID string) Key {
	return append(CompanyKey(companyID), "playbooks")
}

func CompanyProjectsKey(companyID string) Key {
	return append(CompanyKey(companyID), "projects")
}

func CompanyDecisionsKey(companyID string) Key {
	return append(CompanyKey(companyID), "decisions")
}

func CompanyMembersKey(companyID string) Key {
	return append(CompanyKey(companyID), "members")
}

func CompanyKnowledgeKey(companyID string) Key {
	return append(CompanyKey(companyID), "knowledge")
}

func CompanyContextKey(companyID string) Key {
	return append(CompanyKey(companyID), "context")
}
