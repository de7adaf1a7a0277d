package agent

const qaPrompt = `You are an intelligent document assistant. Answer the user's question based on the provided context from their documents.

CONTEXT FROM DOCUMENTS:
%s

USER QUESTION: %s

INSTRUCTIONS:
- Provide a clear, accurate answer based solely on the context
- Cite specific sources when making claims (e.g., "According to [document name]...")
- If information is not in the context, say so clearly
- Be concise but comprehensive
- Use bullet points for multiple items
- Highlight key information

ANSWER:`

const extractPrompt = `Extract the requested information from the document context.

CONTEXT:
%s

EXTRACTION REQUEST: %s

INSTRUCTIONS:
- Extract only factual information present in the documents
- Format as a structured list
- Include document sources for each piece of information
- If information is not found, state this clearly

EXTRACTED INFORMATION:`

const summarizePrompt = `Provide a concise summary of the document content.

CONTEXT:
%s

FOCUS: %s

INSTRUCTIONS:
- Create a clear, organized summary
- Highlight key points and important details
- Use sections/headers if appropriate
- Keep it concise but informative

SUMMARY:`

const comparePrompt = `Compare and contrast information from the documents.

CONTEXT:
%s

COMPARISON REQUEST: %s

INSTRUCTIONS:
- Identify similarities and differences
- Organize comparison clearly
- Cite specific documents
- Highlight key distinctions

COMPARISON:`
